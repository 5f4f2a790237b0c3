// Package runner provides the subprocess boundary for external SSH tooling.
//
// All invocations of ssh-agent, ssh-add, and ssh go through the
// CommandRunner interface so tests can substitute scripted results:
//
//	r := runner.NewExecRunner()
//	res, err := r.Run(ctx, runner.Command{
//	    Name:    "ssh-add",
//	    Args:    []string{"-l"},
//	    Timeout: 5 * time.Second,
//	})
//
// Sensitive input (key passphrases) is supplied via Command.Stdin, never
// via arguments, so it cannot appear in process listings.
package runner
