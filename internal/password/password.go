package password

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Stored hashes use the format "salt:iterations:hash" with hex-encoded salt
// and hash. The format is shared with the tenant/user provisioning flows, so
// it must stay stable.
const (
	saltBytes  = 32
	keyBytes   = 64
	iterations = 310000
)

var ErrMalformedHash = errors.New("password: malformed stored hash")

// Hash derives a storable hash from a plaintext password.
// PBKDF2-SHA512 with a random per-password salt.
func Hash(password string) (string, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("password: salt generation: %w", err)
	}
	saltHex := hex.EncodeToString(salt)
	key := pbkdf2.Key([]byte(password), []byte(saltHex), iterations, keyBytes, sha512.New)
	return fmt.Sprintf("%s:%d:%s", saltHex, iterations, hex.EncodeToString(key)), nil
}

// Verify reports whether password matches the stored hash.
// The comparison is constant-time; callers must not branch on partial results.
func Verify(password, stored string) bool {
	saltHex, iters, wantHex, err := splitStored(stored)
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(wantHex)
	if err != nil {
		return false
	}
	got := pbkdf2.Key([]byte(password), []byte(saltHex), iters, len(want), sha512.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}

func splitStored(stored string) (salt string, iters int, hash string, err error) {
	parts := strings.Split(stored, ":")
	if len(parts) != 3 {
		return "", 0, "", ErrMalformedHash
	}
	iters, err = strconv.Atoi(parts[1])
	if err != nil || iters <= 0 {
		return "", 0, "", ErrMalformedHash
	}
	return parts[0], iters, parts[2], nil
}
