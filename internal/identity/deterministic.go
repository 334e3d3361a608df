// Package identity derives stable identifiers for imported records.
package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const namespace = "go-cms-modules"

// UUID derives a deterministic UUID from key using go-hashid. Empty keys
// yield uuid.Nil. Callers prefix keys by entity to avoid collisions.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// ItemUUID identifies an item imported from seed file name into the list
// identified by scope (for example "slider/post:42").
func ItemUUID(scope, seedName string) uuid.UUID {
	scope = strings.TrimSpace(scope)
	seedName = strings.ToLower(strings.TrimSpace(seedName))
	if scope == "" || seedName == "" {
		return uuid.Nil
	}
	return UUID(namespace + ":item:" + scope + ":" + seedName)
}
