package htpasswdauth

import (
	"os"

	"github.com/spf13/pflag"

	"github.com/hnrobert/pypiauth/internal/plugin"
)

const (
	// EnvPasswordFile supplies the default for --password-file.
	EnvPasswordFile = "PYPISERVER_PASSWORD_FILE"

	// Disabled as a password file turns authentication off.
	Disabled = "."

	passwordFileHelp = `use apache htpasswd file PASSWORD_FILE to set usernames & passwords ` +
		`when authenticating certain actions (see -a option). ` +
		`Set to "." to disable password authentication.`
)

// Options is the configuration this plugin reads. An empty PasswordFile
// means the option was never set.
type Options struct {
	PasswordFile string
}

var _ plugin.FlagRegistrar = (*Options)(nil)

// NewOptions resolves defaults from the process environment.
func NewOptions() *Options {
	return NewOptionsFromEnv(os.LookupEnv)
}

func NewOptionsFromEnv(lookup func(string) (string, bool)) *Options {
	o := &Options{}
	if v, ok := lookup(EnvPasswordFile); ok {
		o.PasswordFile = v
	}
	return o
}

// AddFlags registers -P/--password-file with the current value as default.
// The path is not checked here; a bad path surfaces on the first Authenticate.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.PasswordFile, "password-file", "P", o.PasswordFile, passwordFileHelp)
}

// Enabled reports whether requests are checked against a password file.
func (o Options) Enabled() bool {
	return o.PasswordFile != "" && o.PasswordFile != Disabled
}
