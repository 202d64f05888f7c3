package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hnrobert/pypiauth/internal/htpasswdauth"
	"github.com/hnrobert/pypiauth/internal/logger"
	"github.com/hnrobert/pypiauth/internal/plugin"
)

// ErrRejected means the credentials were checked and did not match.
var ErrRejected = errors.New("credentials rejected")

func newCheckCmd(opts *htpasswdauth.Options) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "check USER",
		Short: "Check a username and password against the password file",
		Long: `Check runs the same decision the server makes for a request.
The password is read from the first line of stdin unless --password is given.
Exit status is 0 when accepted and 1 when rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("password") {
				pw, err := readPassword(cmd.InOrStdin())
				if err != nil {
					return err
				}
				password = pw
			}
			a := htpasswdauth.New(*opts)
			ok, err := a.Authenticate(plugin.Credentials{Username: args[0], Password: password})
			if err != nil {
				return errors.New(HumanAuthError(err))
			}
			if !ok {
				logger.Debug("rejected %s against %s", args[0], opts.PasswordFile)
				fmt.Fprintln(cmd.ErrOrStderr(), "rejected")
				return ErrRejected
			}
			if !opts.Enabled() {
				fmt.Fprintln(cmd.OutOrStdout(), "accepted (password authentication disabled)")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "accepted")
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password to check (default: first line of stdin)")
	return cmd
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// HumanAuthError turns authenticator errors into a one-line message.
func HumanAuthError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, os.ErrNotExist):
		return fmt.Sprintf("password file not found: %v", err)
	case errors.Is(err, os.ErrPermission):
		return fmt.Sprintf("password file not readable: %v", err)
	case errors.Is(err, plugin.ErrNoCredentials):
		return "no username or password given"
	default:
		return fmt.Sprintf("authentication failed: %v", err)
	}
}
