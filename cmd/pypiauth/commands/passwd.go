package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hnrobert/pypiauth/internal/htpasswd"
	"github.com/hnrobert/pypiauth/internal/htpasswdauth"
	"github.com/hnrobert/pypiauth/internal/logger"
)

var errNoPasswordFile = errors.New(`no password file configured (set --password-file or $` + htpasswdauth.EnvPasswordFile + `)`)

func newPasswdCmd(opts *htpasswdauth.Options) *cobra.Command {
	var (
		password string
		scheme   string
		create   bool
		remove   bool
	)
	cmd := &cobra.Command{
		Use:   "passwd USER",
		Short: "Add, update or delete a user in the password file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.Enabled() {
				return errNoPasswordFile
			}
			path, user := opts.PasswordFile, args[0]

			ed, err := htpasswd.Edit(path)
			switch {
			case err == nil:
			case errors.Is(err, os.ErrNotExist) && create:
				ed = htpasswd.NewEditor()
			default:
				return err
			}

			if remove {
				if !ed.Delete(user) {
					return fmt.Errorf("user %s not found in %s", user, path)
				}
				if err := ed.Save(path); err != nil {
					return err
				}
				logger.Info("deleted user %s from %s", user, path)
				return nil
			}

			sc, err := htpasswd.ParseScheme(scheme)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("password") {
				if password, err = readPassword(cmd.InOrStdin()); err != nil {
					return err
				}
			}
			existed, err := ed.SetPassword(user, password, sc)
			if err != nil {
				return err
			}
			if err := ed.Save(path); err != nil {
				return err
			}
			if existed {
				logger.Info("updated password for %s in %s", user, path)
			} else {
				logger.Info("added user %s to %s", user, path)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&password, "password", "", "new password (default: first line of stdin)")
	f.StringVar(&scheme, "scheme", string(htpasswd.DefaultScheme), "hash scheme: apr1, bcrypt, sha256, sha512 or sha")
	f.BoolVarP(&create, "create", "c", false, "create the password file if it does not exist")
	f.BoolVarP(&remove, "delete", "D", false, "delete the user instead of setting a password")
	return cmd
}
