package project

import (
	"crypto/sha256"
)

// Digest is a fixed 256-bit hash, compatible with source.File.Hash.
type Digest [32]byte

// Combine hashes content followed by every extra digest, in order:
// H(content || d1 || d2 ...). Callers pass extras in a deterministic order.
func Combine(content Digest, extra ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range extra {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// StringsDigest hashes a list of strings with a separator that cannot occur
// in them.
func StringsDigest(values ...string) Digest {
	h := sha256.New()
	for _, v := range values {
		_, _ = h.Write([]byte(v))
		_, _ = h.Write([]byte{0})
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
