package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Cache stores generated answers keyed by question. A miss returns
// ok == false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (answer string, ok bool, err error)
	Set(ctx context.Context, key, answer string) error
}

// Key returns the content address of a question. Surrounding whitespace does
// not change the key.
func Key(question string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(question)))
	return hex.EncodeToString(sum[:])
}
