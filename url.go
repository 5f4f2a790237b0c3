package persistssh

import (
	"regexp"
	"strings"
)

var hostnamePattern = regexp.MustCompile(`^[a-zA-Z0-9][-a-zA-Z0-9._]*[a-zA-Z0-9]$`)

// ExtractHostname extracts the hostname from an scp-style SSH URL such
// as git@github.com:user/repo.git. Returns "" for anything that is not a
// well-formed SSH URL with a non-empty path.
func ExtractHostname(url string) string {
	if !strings.Contains(url, ":") || !strings.Contains(url, "@") {
		return ""
	}

	userHost, path, ok := strings.Cut(url, ":")
	if !ok || strings.Trim(path, "/") == "" {
		return ""
	}

	user, host, ok := strings.Cut(userHost, "@")
	if !ok || user == "" || host == "" {
		return ""
	}
	if strings.HasPrefix(host, ".") || strings.HasSuffix(host, ".") {
		return ""
	}
	if !hostnamePattern.MatchString(host) {
		return ""
	}
	return host
}
