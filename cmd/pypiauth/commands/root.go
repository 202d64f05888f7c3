// Package commands implements the pypiauth command line.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/hnrobert/pypiauth/internal/htpasswdauth"
	"github.com/hnrobert/pypiauth/internal/logger"
)

// NewRootCmd builds the command tree. Plugin options pick up their
// environment defaults here, once.
func NewRootCmd() *cobra.Command {
	opts := htpasswdauth.NewOptions()
	var (
		logLevel string
		logDir   string
	)

	root := &cobra.Command{
		Use:   "pypiauth",
		Short: "htpasswd authentication for a package index",
		Long: `pypiauth checks package-index credentials against an Apache htpasswd file.

The password file comes from --password-file or $` + htpasswdauth.EnvPasswordFile + `.
A password file of "." turns authentication off.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := logger.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger.SetLevel(lvl)
			return logger.Init(logDir)
		},
	}

	pf := root.PersistentFlags()
	opts.AddFlags(pf)
	pf.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
	pf.StringVar(&logDir, "log-dir", "", "also write daily log files to this directory")

	root.AddCommand(newCheckCmd(opts))
	root.AddCommand(newPasswdCmd(opts))
	root.AddCommand(newServeCmd(opts))
	root.CompletionOptions.DisableDefaultCmd = true
	return root
}
