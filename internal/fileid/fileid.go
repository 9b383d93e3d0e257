// Package fileid provides content digests for processed documents.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
)

const prefix = "sha256:"

// Digest returns a stable identifier for the document bytes.
// Identical content always yields the same digest, whatever the filename.
func Digest(data []byte) string {
	hash := sha256.Sum256(data)
	return prefix + hex.EncodeToString(hash[:])
}
