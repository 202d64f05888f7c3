// Package htpasswdauth authenticates package-index requests against an
// Apache htpasswd file.
package htpasswdauth

import (
	"fmt"

	"github.com/hnrobert/pypiauth/internal/htpasswd"
	"github.com/hnrobert/pypiauth/internal/plugin"
)

const (
	PluginName = "Htpasswd Authenticator"
	PluginHelp = "Authenticate using an Apache htpasswd file"
)

// ErrMissingCredentials is returned when authentication is enabled and the
// request has no username/password pair.
var ErrMissingCredentials = plugin.ErrNoCredentials

type Authenticator struct {
	opts Options
}

var _ plugin.Authenticator = (*Authenticator)(nil)

func New(opts Options) *Authenticator {
	return &Authenticator{opts: opts}
}

func (a *Authenticator) Name() string { return PluginName }
func (a *Authenticator) Help() string { return PluginHelp }

// Authenticate accepts every request while disabled. Otherwise it brings the
// password file up to date and checks the request's pair against it.
// Failures to read the file are returned as errors, never as false.
func (a *Authenticator) Authenticate(req plugin.Request) (bool, error) {
	if !a.opts.Enabled() {
		return true, nil
	}
	f, err := htpasswd.Open(a.opts.PasswordFile)
	if err != nil {
		return false, fmt.Errorf("open password file: %w", err)
	}
	if _, err := f.LoadIfChanged(); err != nil {
		return false, fmt.Errorf("reload password file: %w", err)
	}
	username, password, ok := req.BasicAuth()
	if !ok {
		return false, ErrMissingCredentials
	}
	return f.CheckPassword(username, password), nil
}
