package htpasswdauth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hnrobert/pypiauth/internal/htpasswd"
	"github.com/hnrobert/pypiauth/internal/plugin"
)

// htpasswdFile creates an empty password file and returns its path.
func htpasswdFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "htpasswd.pass")
	require.NoError(t, htpasswd.Create(path))
	return path
}

func addLogin(t *testing.T, path, user, password string) {
	t.Helper()
	ed, err := htpasswd.Edit(path)
	require.NoError(t, err)
	_, err = ed.SetPassword(user, password, htpasswd.DefaultScheme)
	require.NoError(t, err)
	require.NoError(t, ed.Save(path))
}

func req(user, password string) plugin.Request {
	return plugin.Credentials{Username: user, Password: password}
}

func TestAuthenticate_Htpasswd(t *testing.T) {
	path := htpasswdFile(t)
	addLogin(t, path, "foo", "foobar")

	ok, err := New(Options{PasswordFile: path}).Authenticate(req("foo", "foobar"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAuthenticate_HtpasswdFail(t *testing.T) {
	path := htpasswdFile(t)
	addLogin(t, path, "foo", "foobar")

	a := New(Options{PasswordFile: path})
	ok, err := a.Authenticate(req("foo", "asb"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = a.Authenticate(req("nobody", "foobar"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthenticate_Disabled(t *testing.T) {
	for _, pf := range []string{"", Disabled} {
		a := New(Options{PasswordFile: pf})
		ok, err := a.Authenticate(req("a", "b"))
		require.NoError(t, err)
		assert.True(t, ok, "%q", pf)

		// Credentials are not inspected at all.
		ok, err = a.Authenticate(plugin.Anonymous{})
		require.NoError(t, err)
		assert.True(t, ok, "%q", pf)
	}
}

func TestAuthenticate_Idempotent(t *testing.T) {
	path := htpasswdFile(t)
	addLogin(t, path, "foo", "foobar")
	a := New(Options{PasswordFile: path})

	for _, pw := range []string{"foobar", "wrong"} {
		first, err := a.Authenticate(req("foo", pw))
		require.NoError(t, err)
		second, err := a.Authenticate(req("foo", pw))
		require.NoError(t, err)
		assert.Equal(t, first, second, pw)
	}
}

func TestAuthenticate_PicksUpFileChanges(t *testing.T) {
	path := htpasswdFile(t)
	addLogin(t, path, "foo", "foobar")
	a := New(Options{PasswordFile: path})

	ok, err := a.Authenticate(req("bar", "baz"))
	require.NoError(t, err)
	assert.False(t, ok)

	addLogin(t, path, "bar", "baz")

	ok, err = a.Authenticate(req("bar", "baz"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAuthenticate_MissingFile(t *testing.T) {
	a := New(Options{PasswordFile: filepath.Join(t.TempDir(), "missing.pass")})
	ok, err := a.Authenticate(req("foo", "foobar"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.False(t, ok)
}

func TestAuthenticate_MissingCredentials(t *testing.T) {
	path := htpasswdFile(t)
	addLogin(t, path, "foo", "foobar")

	_, err := New(Options{PasswordFile: path}).Authenticate(plugin.Anonymous{})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestPluginMetadata(t *testing.T) {
	var a plugin.Authenticator = New(Options{})
	assert.Equal(t, "Htpasswd Authenticator", a.Name())
	assert.Equal(t, "Authenticate using an Apache htpasswd file", a.Help())
}

func newFlagSet(t *testing.T) (*pflag.FlagSet, *Options) {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts := NewOptions()
	opts.AddFlags(fs)
	return fs, opts
}

func TestConfig_UpdatingParser(t *testing.T) {
	t.Setenv(EnvPasswordFile, "")
	require.NoError(t, os.Unsetenv(EnvPasswordFile))

	fs, opts := newFlagSet(t)
	require.NoError(t, fs.Parse(nil))
	assert.Equal(t, "", opts.PasswordFile)
	assert.False(t, opts.Enabled())

	f := fs.Lookup("password-file")
	require.NotNil(t, f)
	assert.Equal(t, "P", f.Shorthand)
	assert.Contains(t, f.Usage, `"."`)
}

func TestConfig_PullFromEnv(t *testing.T) {
	t.Setenv(EnvPasswordFile, "foo")

	fs, opts := newFlagSet(t)
	require.NoError(t, fs.Parse(nil))
	assert.Equal(t, "foo", opts.PasswordFile)
	assert.Equal(t, "foo", fs.Lookup("password-file").DefValue)
}

func TestConfig_DirectSpecification(t *testing.T) {
	t.Setenv(EnvPasswordFile, "foo")

	fs, opts := newFlagSet(t)
	require.NoError(t, fs.Parse([]string{"--password-file", "bar"}))
	assert.Equal(t, "bar", opts.PasswordFile)

	fs, opts = newFlagSet(t)
	require.NoError(t, fs.Parse([]string{"-P", "."}))
	assert.Equal(t, Disabled, opts.PasswordFile)
	assert.False(t, opts.Enabled())
}

func TestNewOptionsFromEnv(t *testing.T) {
	opts := NewOptionsFromEnv(func(string) (string, bool) { return "", false })
	assert.Equal(t, "", opts.PasswordFile)

	opts = NewOptionsFromEnv(func(k string) (string, bool) {
		if k == EnvPasswordFile {
			return "/etc/pypi/htpasswd", true
		}
		return "", false
	})
	assert.Equal(t, "/etc/pypi/htpasswd", opts.PasswordFile)
	assert.True(t, opts.Enabled())
}
