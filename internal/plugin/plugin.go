// Package plugin defines the contract between the package-index server and
// its authenticator plugins.
package plugin

import (
	"errors"

	"github.com/spf13/pflag"
)

// ErrNoCredentials is returned by authenticators that need an auth pair
// when the request carries none. Hosts answer it with a challenge.
var ErrNoCredentials = errors.New("request has no credentials")

// Request is what an authenticator needs from an incoming request.
// ok is false when the request carries no well-formed auth pair.
type Request interface {
	BasicAuth() (username, password string, ok bool)
}

// Authenticator decides whether a request may perform a protected action.
//
// A false result with a nil error is a rejection. A non-nil error means the
// decision could not be made and the host must not treat it as either answer.
type Authenticator interface {
	Name() string
	Help() string
	Authenticate(req Request) (bool, error)
}

// FlagRegistrar contributes plugin options to the host's flag set. It is
// implemented by option types so registration happens before any
// Authenticator is constructed.
type FlagRegistrar interface {
	AddFlags(fs *pflag.FlagSet)
}

// Credentials is a bare auth pair.
type Credentials struct {
	Username string
	Password string
}

func (c Credentials) BasicAuth() (string, string, bool) {
	return c.Username, c.Password, true
}

// Anonymous is a request without credentials.
type Anonymous struct{}

func (Anonymous) BasicAuth() (string, string, bool) {
	return "", "", false
}
