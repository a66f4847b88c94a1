package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Fingerprint identifies a dataset by its shape. Column order matters: two
// uploads with the same columns in a different order are different inputs to
// the mapper and get different fingerprints.
type Fingerprint Hash

// ComputeFingerprint builds a fingerprint from the column list and row count.
func ComputeFingerprint(columns []string, rowCount int) Fingerprint {
	var data strings.Builder
	for _, col := range columns {
		data.WriteString(col)
		data.WriteString("\x00")
	}
	data.WriteString(fmt.Sprintf("rows=%d", rowCount))
	return Fingerprint(NewHash([]byte(data.String())))
}

// String returns the string representation
func (f Fingerprint) String() string { return Hash(f).String() }
