package accounts

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"
)

// Argon2id parameters.
const (
	argonTime    uint32 = 1
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 4
	argonKeyLen  uint32 = 32
	argonSaltLen        = 16
)

// HashPassword will generate an Argon2id digest of the password in PHC
// string form. Each call draws a fresh random salt, so two hashes of
// the same password differ while both verify.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to generate password salt")
	}

	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemory,
		argonTime,
		argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	return encoded, nil
}

// ComparePasswordAndHash will validate the given cleartext password
// against a stored hash with a constant-time digest comparison. Any
// malformed or corrupted hash string counts as a mismatch, never a
// fault.
func ComparePasswordAndHash(password, hash string) error {
	salt, key, params, err := decodeArgon2Hash(hash)
	if err != nil {
		return ErrPasswordMismatch
	}

	derived := argon2.IDKey([]byte(password), salt, params.time, params.memory, params.threads, uint32(len(key)))

	if subtle.ConstantTimeCompare(key, derived) != 1 {
		return ErrPasswordMismatch
	}

	return nil
}

// RandomPasswordHash is a temporary password
func RandomPasswordHash() string {
	pwd := uuid.New()

	h, err := HashPassword(pwd.String())
	if err != nil {
		return RandomPasswordHash()
	}

	return h
}

type argon2Params struct {
	memory  uint32
	time    uint32
	threads uint8
}

func decodeArgon2Hash(encoded string) ([]byte, []byte, argon2Params, error) {
	var params argon2Params

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return nil, nil, params, fmt.Errorf("not an argon2id hash")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, params, err
	}
	if version != argon2.Version {
		return nil, nil, params, fmt.Errorf("unsupported argon2 version %d", version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memory, &params.time, &params.threads); err != nil {
		return nil, nil, params, err
	}

	// argon2.IDKey panics on zero rounds or zero threads, so a hash
	// carrying them is corrupted, not merely weak.
	if params.time < 1 || params.threads < 1 || params.memory < 1 {
		return nil, nil, params, fmt.Errorf("invalid argon2 parameters")
	}

	salt, err := base64.RawStdEncoding.Strict().DecodeString(parts[4])
	if err != nil {
		return nil, nil, params, err
	}

	key, err := base64.RawStdEncoding.Strict().DecodeString(parts[5])
	if err != nil {
		return nil, nil, params, err
	}

	if len(salt) == 0 || len(key) == 0 {
		return nil, nil, params, fmt.Errorf("empty salt or digest")
	}

	return salt, key, params, nil
}
