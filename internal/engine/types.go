package engine

import (
	"crypto/sha256"
	"encoding/hex"
)

// Seeds identifies a provably fair stream.
type Seeds struct {
	Server string `json:"server"` // ASCII; do NOT hex-decode
	Client string `json:"client"`
}

// HashServerSeed returns the hex SHA-256 commitment published before play.
func HashServerSeed(serverSeed string) string {
	if serverSeed == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(serverSeed))
	return hex.EncodeToString(sum[:])
}
