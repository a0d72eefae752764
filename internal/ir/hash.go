package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainIR prefixes IR hashes. The version suffix allows the canonical form
// to change later.
const DomainIR = "doctrans/ir/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hash computes the content hash of an IR.
func Hash(r *IR) (string, error) {
	canonical, err := MarshalCanonical(r)
	if err != nil {
		return "", fmt.Errorf("Hash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainIR, canonical), nil
}

// ShapeHash hashes the parts of an IR that every artifact form can carry:
// Name and Kind are ignored, since a class and an argparse function that
// describe the same interface legitimately differ in both.
func ShapeHash(r *IR) (string, error) {
	if r == nil {
		return "", fmt.Errorf("ShapeHash: nil IR")
	}
	c := r.Clone()
	c.Name = ""
	c.Kind = ""
	return Hash(c)
}

// MustHash is like Hash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustHash(r *IR) string {
	h, err := Hash(r)
	if err != nil {
		panic(err)
	}
	return h
}
