// Package endpoint abstracts the agent's inter-process address. On POSIX
// systems an endpoint is a unix domain socket path; on Windows it is a
// named-pipe identifier. Everything above this package treats the
// endpoint as an opaque string.
package endpoint

// EnvVar is the environment variable the SSH tooling uses to locate the
// agent endpoint.
const EnvVar = "SSH_AUTH_SOCK"
