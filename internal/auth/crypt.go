package auth

import (
	"errors"
	"strings"

	"github.com/GehirnInc/crypt"
	"github.com/GehirnInc/crypt/md5_crypt"
	"github.com/GehirnInc/crypt/sha256_crypt"
	"github.com/GehirnInc/crypt/sha512_crypt"
)

var (
	errBadPassword     = errors.New("password mismatch")
	errLocked          = errors.New("account is locked")
	errUnsupportedHash = errors.New("unsupported password hash")
)

// verifyHash checks a password against a shadow crypt hash.
// An empty hash field is treated as locked, not as passwordless.
func verifyHash(hash, password string) error {
	if hash == "" || strings.HasPrefix(hash, "!") || strings.HasPrefix(hash, "*") {
		return errLocked
	}

	// Supported crypt formats:
	// $1$ (md5-crypt), $5$ (sha256-crypt), $6$ (sha512-crypt).
	crypters := []crypt.Crypter{
		sha512_crypt.New(),
		sha256_crypt.New(),
		md5_crypt.New(),
	}
	for _, c := range crypters {
		if err := c.Verify(hash, []byte(password)); err == nil {
			return nil
		}
	}

	// Detect an obviously unsupported hash prefix.
	// yescrypt ($y$), scrypt ($7$) and bcrypt ($2*) are not carried here.
	if strings.HasPrefix(hash, "$y$") || strings.HasPrefix(hash, "$7$") || strings.HasPrefix(hash, "$2") {
		return errUnsupportedHash
	}
	return errBadPassword
}
