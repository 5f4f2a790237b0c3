package sshconfig

import "fmt"

// InvalidOptionError reports an unrecognized option name or an
// out-of-schema value. It is raised at insertion time; a resolved
// configuration never contains an invalid option.
type InvalidOptionError struct {
	Name   string // Option name as supplied by the caller
	Reason string // Why validation failed
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("invalid SSH option %q: %s", e.Name, e.Reason)
}
