// Package keys determines, deduplicates, and loads SSH identities into a
// running agent.
//
// Candidates come from explicit configuration (a key file or inline
// content), the environment, or default discovery under ~/.ssh in key
// type preference order. Before loading anything the loader queries the
// agent for its current fingerprints and skips candidates that are
// already present, so EnsureLoaded is idempotent:
//
//	loader := keys.NewLoader()
//	key, err := loader.EnsureLoaded(ctx, sock, keys.DiscoverDefaults(sshDir))
//
// Passphrases are supplied to the key tool over stdin, never via process
// arguments. Inline key content only ever touches disk as a 0600 temp
// file that is removed as soon as the load completes.
package keys
