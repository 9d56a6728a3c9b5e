package id

import "crypto/rand"

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// New creates a prefixed random identifier, e.g. "run_k3f9a02mc1xp".
// The 12-character suffix gives plenty of entropy for a single-node store.
func New(prefix string) string {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	for i := range b {
		b[i] = alphabet[b[i]%byte(len(alphabet))]
	}
	return prefix + "_" + string(b)
}
