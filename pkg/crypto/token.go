package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
)

const DefaultTokenLength = 32 // 256 bits

// TokenPair holds a raw token and the hash kept in storage. Only the
// hash is ever persisted; the raw value goes to the client.
type TokenPair struct {
	Token string
	Hash  string
}

// GenerateHashedToken returns a fresh random token plus its storage hash.
func GenerateHashedToken(byteLength ...int) (*TokenPair, error) {
	length := DefaultTokenLength
	if len(byteLength) > 0 && byteLength[0] > 0 {
		length = byteLength[0]
	}

	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return nil, err
	}

	token := base64.RawURLEncoding.EncodeToString(bytes)
	return &TokenPair{Token: token, Hash: HashToken(token)}, nil
}

// VerifyToken compares a raw token against a stored hash in constant
// time.
func VerifyToken(token, storedHash string) (bool, error) {
	if token == "" || storedHash == "" {
		return false, errors.New("token and hash cannot be empty")
	}

	tokenHash := HashToken(token)
	return subtle.ConstantTimeCompare([]byte(tokenHash), []byte(storedHash)) == 1, nil
}

// HashToken returns the hex-encoded sha-256 digest used as the storage
// and cache key for a token.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
