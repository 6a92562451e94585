package locator

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"rainbowbrowser/internal/action"
)

// Fingerprint returns a stable, structural, kind-tagged hash of a
// Target for use as a cache key. A textual debug form can collide
// across unrelated targets, so this hashes the kind tag and payload
// together instead.
func Fingerprint(t action.Target) string {
	h := sha256.New()
	fmt.Fprintf(h, "kind:%d|value:%s|x:%v|y:%v", t.Kind, t.Value, t.X, t.Y)
	return hex.EncodeToString(h.Sum(nil))
}
