package sshconfig

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// invalidPatternChars are characters that never appear in a legitimate
// host pattern. Host lines containing them are skipped.
const invalidPatternChars = "|[]{}\\;"

// ImportOpenSSH reads an OpenSSH client configuration file (typically
// ~/.ssh/config) and registers its Host blocks on the configuration.
// Import is permissive: directives the schema does not recognize, and
// values that fail validation, are skipped with a warning rather than
// aborting. A missing file is not an error.
func (c *Config) ImportOpenSSH(path string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open ssh config: %w", err)
	}
	defer f.Close()

	return c.importOpenSSH(f, path, logger)
}

func (c *Config) importOpenSSH(r io.Reader, path string, logger *slog.Logger) error {
	var (
		patterns []string
		options  map[string]string
	)

	flush := func() {
		if len(options) == 0 {
			patterns, options = nil, nil
			return
		}
		for _, pattern := range patterns {
			if err := c.AddHost(pattern, options); err != nil {
				logger.Warn("skipping ssh config host block",
					"path", path, "pattern", pattern, "error", err)
			}
		}
		patterns, options = nil, nil
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		key := strings.ToLower(fields[0])
		value := strings.Trim(strings.TrimSpace(strings.TrimPrefix(line, fields[0])), `"`)

		if key == "host" {
			flush()
			for _, p := range fields[1:] {
				if strings.ContainsAny(p, invalidPatternChars) {
					logger.Warn("skipping invalid host pattern", "path", path, "pattern", p)
					continue
				}
				patterns = append(patterns, p)
			}
			continue
		}
		if len(patterns) == 0 || value == "" {
			continue
		}

		if _, ok := lookupOption(key); !ok {
			// Unmanaged directive (Match, Include, ...). Not an error.
			continue
		}
		if options == nil {
			options = make(map[string]string)
		}
		spec, _ := lookupOption(key)
		if err := spec.validate(value); err != nil {
			logger.Warn("skipping ssh config option",
				"path", path, "option", spec.name, "error", err)
			continue
		}
		options[spec.name] = value
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read ssh config: %w", err)
	}
	flush()
	return nil
}
