package htpasswd

import (
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/GehirnInc/crypt"
	"github.com/GehirnInc/crypt/apr1_crypt"
	"github.com/GehirnInc/crypt/sha256_crypt"
	"github.com/GehirnInc/crypt/sha512_crypt"
	"golang.org/x/crypto/bcrypt"
)

type Scheme string

const (
	SchemeAPR1   Scheme = "apr1"
	SchemeBcrypt Scheme = "bcrypt"
	SchemeSHA256 Scheme = "sha256"
	SchemeSHA512 Scheme = "sha512"
	SchemeSHA    Scheme = "sha"

	DefaultScheme = SchemeAPR1
)

var ErrUnknownScheme = errors.New("unknown password scheme")

func Schemes() []Scheme {
	return []Scheme{SchemeAPR1, SchemeBcrypt, SchemeSHA256, SchemeSHA512, SchemeSHA}
}

func ParseScheme(s string) (Scheme, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultScheme, nil
	}
	for _, sc := range Schemes() {
		if string(sc) == s {
			return sc, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScheme, s)
}

// Hash encodes password in the htpasswd representation of scheme, with a
// fresh random salt where the scheme has one.
func Hash(password string, scheme Scheme) (string, error) {
	var c crypt.Crypter
	switch scheme {
	case SchemeAPR1, "":
		c = apr1_crypt.New()
	case SchemeSHA256:
		c = sha256_crypt.New()
	case SchemeSHA512:
		c = sha512_crypt.New()
	case SchemeBcrypt:
		b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return "", err
		}
		// Apache writes $2y$; the hash body is identical.
		return "$2y$" + strings.TrimPrefix(string(b), "$2a$"), nil
	case SchemeSHA:
		sum := sha1.Sum([]byte(password))
		return "{SHA}" + base64.StdEncoding.EncodeToString(sum[:]), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
	return c.Generate([]byte(password), nil)
}

// SchemeOf guesses the scheme of an encoded hash from its prefix.
func SchemeOf(hash string) (Scheme, bool) {
	switch {
	case strings.HasPrefix(hash, "$apr1$"):
		return SchemeAPR1, true
	case strings.HasPrefix(hash, "$2y$"), strings.HasPrefix(hash, "$2a$"), strings.HasPrefix(hash, "$2b$"):
		return SchemeBcrypt, true
	case strings.HasPrefix(hash, "$5$"):
		return SchemeSHA256, true
	case strings.HasPrefix(hash, "$6$"):
		return SchemeSHA512, true
	case strings.HasPrefix(hash, "{SHA}"):
		return SchemeSHA, true
	}
	return "", false
}
