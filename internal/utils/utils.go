package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Counter for sequential uniqueness
var sequenceCounter uint64 = 0

// GenerateShortID creates a short, URL-safe id (good for request ids and log correlation)
func GenerateShortID() string {
	buf := make([]byte, 0, 24)

	// Add timestamp
	timeBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(timeBytes, uint64(time.Now().UnixNano()))
	buf = append(buf, timeBytes...)

	// Add counter
	counterBytes := make([]byte, 8)
	counter := atomic.AddUint64(&sequenceCounter, 1)
	binary.BigEndian.PutUint64(counterBytes, counter)
	buf = append(buf, counterBytes...)

	// Add some randomness
	randomBytes := make([]byte, 8)
	_, _ = rand.Read(randomBytes)
	buf = append(buf, randomBytes...)

	hash := sha256.Sum256(buf)

	// Use just the first 16 bytes for shorter ID
	encoded := base64.URLEncoding.EncodeToString(hash[:16])

	return encoded[:22]
}

// GenerateUserID creates a user ID
func GenerateUserID() string {
	return "user-" + uuid.NewString()
}

// HashToken returns the hex sha256 of a raw token, used wherever a token has to be a key
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
