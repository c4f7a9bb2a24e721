package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/hostkit/pkg/identity"
)

var errEmptyPassword = errors.New("password is empty")

// hashPasswordCommand hashes a password with the configured bcrypt cost,
// after checking it against the password policy. The password is read from
// the first line of stdin so it stays out of shell history.
func hashPasswordCommand(opts *rootOptions) *cobra.Command {
	var skipPolicy bool

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Hash a password read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			password := strings.TrimRight(line, "\r\n")
			if password == "" {
				if err != nil {
					return errors.Join(errEmptyPassword, err)
				}
				return errEmptyPassword
			}

			if !skipPolicy {
				if list := identity.ValidatePassword(cfg.Identity.Password, password); len(list) > 0 {
					return list
				}
			}

			hash, err := identity.NewHasher(cfg.Identity.BcryptCost).Hash(password)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}

	cmd.Flags().BoolVar(&skipPolicy, "skip-policy", false, "do not check the password policy")
	return cmd
}
