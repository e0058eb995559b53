// Package cas computes the content digests recorded for build artifacts.
// Every artifact is identified by both its SHA-256 and its BLAKE3 hash, so
// a manifest can be checked with either.
package cas

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"regexp"

	"github.com/zeebo/blake3"
)

// ErrInvalidHash is returned when a hash string is not 64 lowercase hex
// characters.
var ErrInvalidHash = errors.New("invalid hash format")

// ErrMismatch is returned when content does not match a recorded digest.
var ErrMismatch = errors.New("digest mismatch")

// hexPattern matches a lowercase 256-bit hex digest.
var hexPattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Digest holds both hashes of one blob.
type Digest struct {
	SHA256 string `json:"sha256"`
	BLAKE3 string `json:"blake3"`
	Size   int64  `json:"size"`
}

// Sum computes the digest of data.
func Sum(data []byte) Digest {
	s := sha256.Sum256(data)
	b := blake3.Sum256(data)
	return Digest{
		SHA256: hex.EncodeToString(s[:]),
		BLAKE3: hex.EncodeToString(b[:]),
		Size:   int64(len(data)),
	}
}

// Hasher computes a Digest over a stream. It implements io.Writer.
type Hasher struct {
	sha  hash.Hash
	b3   *blake3.Hasher
	size int64
}

// NewHasher returns an empty Hasher.
func NewHasher() *Hasher {
	return &Hasher{sha: sha256.New(), b3: blake3.New()}
}

// Write feeds p to both hashes.
func (h *Hasher) Write(p []byte) (int, error) {
	h.sha.Write(p)
	h.b3.Write(p)
	h.size += int64(len(p))
	return len(p), nil
}

// Digest returns the digest of everything written so far.
func (h *Hasher) Digest() Digest {
	return Digest{
		SHA256: hex.EncodeToString(h.sha.Sum(nil)),
		BLAKE3: hex.EncodeToString(h.b3.Sum(nil)),
		Size:   h.size,
	}
}

// SumReader digests everything readable from r.
func SumReader(r io.Reader) (Digest, error) {
	h := NewHasher()
	if _, err := io.Copy(h, r); err != nil {
		return Digest{}, fmt.Errorf("failed to hash stream: %w", err)
	}
	return h.Digest(), nil
}

// Valid reports whether both hashes are well-formed.
func (d Digest) Valid() bool {
	return hexPattern.MatchString(d.SHA256) && hexPattern.MatchString(d.BLAKE3)
}

// Check compares d against the digest of actual content. Both hashes and
// the size must match.
func (d Digest) Check(actual Digest) error {
	if !d.Valid() {
		return ErrInvalidHash
	}
	switch {
	case d.SHA256 != actual.SHA256:
		return fmt.Errorf("%w: sha256 %s, got %s", ErrMismatch, d.SHA256, actual.SHA256)
	case d.BLAKE3 != actual.BLAKE3:
		return fmt.Errorf("%w: blake3 %s, got %s", ErrMismatch, d.BLAKE3, actual.BLAKE3)
	case d.Size != actual.Size:
		return fmt.Errorf("%w: size %d, got %d", ErrMismatch, d.Size, actual.Size)
	}
	return nil
}
