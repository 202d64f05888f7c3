package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hnrobert/pypiauth/internal/htpasswdauth"
	"github.com/hnrobert/pypiauth/internal/logger"
	"github.com/hnrobert/pypiauth/internal/server"
)

func newServeCmd(opts *htpasswdauth.Options) *cobra.Command {
	cfg := server.Config{
		ListenAddr: getenvDefault("PYPIAUTH_LISTEN", ":8080"),
		PackageDir: ".",
		Realm:      server.DefaultRealm,
	}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a package directory behind htpasswd authentication",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := htpasswdauth.New(*opts)
			if opts.Enabled() {
				logger.Info("%s using %s", a.Name(), opts.PasswordFile)
			} else {
				logger.Warn("password authentication disabled; every request is accepted")
			}
			return server.New(cfg, a).ListenAndServe()
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "listen address (env PYPIAUTH_LISTEN)")
	f.StringVar(&cfg.PackageDir, "dir", cfg.PackageDir, "package directory served under /packages/")
	f.StringVar(&cfg.Realm, "realm", cfg.Realm, "basic auth realm")
	return cmd
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
