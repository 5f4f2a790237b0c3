// Package gitcmd renders a resolved host configuration into the SSH
// invocation string consumed by version-control tooling.
package gitcmd

import (
	"strings"

	"github.com/randalmurphal/persistssh/keys"
	"github.com/randalmurphal/persistssh/sshconfig"
)

// EnvVar is the environment variable git reads to override its SSH
// transport command.
const EnvVar = "GIT_SSH_COMMAND"

// Build renders the ssh invocation for a host: the identity file flag
// when the loaded identity has a path (omitted for inline-only keys,
// which leave no file behind), then a -o flag for every resolved option
// whose value differs from the tool's documented default, in sorted
// order. Deterministic given its inputs.
func Build(resolved *sshconfig.Resolved, loaded *keys.LoadedKey) string {
	parts := []string{"ssh"}

	identityFlag := loaded != nil && loaded.Path != ""
	if identityFlag {
		// Forward slashes work on every platform git runs on.
		parts = append(parts, "-i", quote(strings.ReplaceAll(loaded.Path, `\`, "/")))
	}

	if resolved != nil {
		for _, name := range resolved.Names() {
			if name == "IdentityFile" && identityFlag {
				continue // -i already covers it.
			}
			value := resolved.Get(name)
			if def, ok := sshconfig.DefaultValue(name); ok && strings.EqualFold(value, def) {
				continue
			}
			parts = append(parts, "-o", quote(name+"="+value))
		}
	}

	return strings.Join(parts, " ")
}

// Env renders the environment-style assignment embedding the invocation,
// ready to hand to a subprocess environment or shell export.
func Env(resolved *sshconfig.Resolved, loaded *keys.LoadedKey) string {
	return EnvVar + "=" + Build(resolved, loaded)
}

// quote wraps arguments containing shell-significant characters in
// double quotes. Values come from the validated option schema, so this
// only needs to survive spaces in paths, not adversarial input.
func quote(s string) string {
	if strings.ContainsAny(s, " \t") {
		return `"` + s + `"`
	}
	return s
}
