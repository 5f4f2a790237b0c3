package keys

import (
	"fmt"
	"os"
	"runtime"
)

// checkPermissions verifies a private key file is not readable by group
// or others. The underlying agent tooling tolerates loose modes, so by
// default this only logs a warning; strict mode turns it into
// ErrKeyPermissions. Windows has no POSIX mode bits, so the check is
// skipped there.
func (l *Loader) checkPermissions(path string) error {
	if runtime.GOOS == "windows" {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat key file: %w", err)
	}

	if mode := info.Mode().Perm(); mode&0o077 != 0 {
		if l.strict {
			return fmt.Errorf("%w: %s has mode %04o", ErrKeyPermissions, path, mode)
		}
		l.logger.Warn("private key file is accessible by group or others",
			"path", path, "mode", fmt.Sprintf("%04o", mode))
	}
	return nil
}
