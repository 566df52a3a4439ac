package fileproc

import (
	"crypto"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
)

// RowDigest is the algorithm used to derive a row's identity key for
// deduplication. Can be set to SHA512256 (default) or SHA256.
var RowDigest HashAlgorithm = SHA512256{}

// HashAlgorithm hashes a row identity into a fixed-size digest.
type HashAlgorithm interface {
	Sum([]byte) [32]byte
	Algorithm() crypto.Hash
}

type SHA512256 struct{}

func (h SHA512256) Sum(data []byte) [32]byte { return sha512.Sum512_256(data) }
func (h SHA512256) Algorithm() crypto.Hash   { return crypto.SHA512_256 }

type SHA256 struct{}

func (h SHA256) Sum(data []byte) [32]byte { return sha256.Sum256(data) }
func (h SHA256) Algorithm() crypto.Hash   { return crypto.SHA256 }

// RowIdentityKey hashes a job id and a row's extracted id into a stable
// dedup key.
func RowIdentityKey(jobID, rowID string) string {
	sum := RowDigest.Sum([]byte(jobID + "\x00" + rowID))
	return hex.EncodeToString(sum[:])
}
