// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

/*
Package credentials stores per-user AI provider API keys encrypted at rest.

Keys are sealed with AES-256-GCM. The 256-bit key is derived from the server
secret with HKDF-SHA256 and a fixed salt, so every instance configured with
the same secret can decrypt what any other instance wrote. A SHA-256 hash of
the plaintext is stored beside the ciphertext and checked after decryption.

Plaintext leaves the Manager only through Retrieve, which is meant for the
enrichment gateway. Retrieve never returns an error: missing, invalid or
corrupt keys all read as "no key", and the caller falls back to the shared
default credential.

Usage:

	enc, err := credentials.NewEncryptor(cfg.Security.EncryptionSecret)
	if err != nil {
	    return err
	}
	mgr := credentials.NewManager(credentials.NewBadgerRepository(db), enc, credentials.Options{
	    AllowedPrefixes: []string{"sk-", "AIza"},
	})
	info, err := mgr.Store(ctx, userID, apiKey, "personal")

Lifecycle events (stored, removed) are reported through Hooks; the quota
manager implements Hooks to move the user out of the no_key state.
*/
package credentials
