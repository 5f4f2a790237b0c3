// Package sshconfig models SSH client configuration with typed
// validation and OpenSSH-compatible host-pattern resolution.
//
// Options are validated at insertion against a fixed schema spanning six
// categories (connection, security, optimization, proxy/forwarding,
// environment, multiplexing). Names are case-insensitive; values are
// type-checked (boolean tokens, integer ranges, enumerations, paths).
// An unrecognized name or out-of-schema value fails immediately with
// *InvalidOptionError, so a resolved configuration never contains an
// invalid option.
//
//	cfg := sshconfig.New()
//	cfg.SetGlobal("ServerAliveInterval", "60")
//	cfg.AddHost("*.example.com", map[string]string{"User": "git"})
//	cfg.AddHost("ci.example.com", map[string]string{"User": "deploy"})
//
//	resolved := cfg.Resolve("ci.example.com")
//	resolved.Get("User") // "deploy"
//
// Patterns use glob semantics: '*' matches any run of characters, '?'
// matches exactly one, and a leading '!' negates. Per option the first
// value obtained from the most specific matching pattern wins, with the
// global set filling whatever remains.
//
// Configuration can also be loaded from a YAML file (Load) or ingested
// from a real OpenSSH ~/.ssh/config (Config.ImportOpenSSH).
package sshconfig
