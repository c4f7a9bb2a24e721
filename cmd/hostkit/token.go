package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/hostkit/pkg/auth"
	"github.com/dmitrymomot/hostkit/pkg/jwt"
)

// tokenCommand signs a bearer token with the configured JWT settings.
// Useful for calling the API from scripts without a password sign-in.
func tokenCommand(opts *rootOptions) *cobra.Command {
	var (
		p   auth.Principal
		ttl time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a bearer token for the given subject",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if ttl > 0 {
				cfg.JWT.Lifetime = ttl
			}

			svc, err := jwt.New(cfg.JWT)
			if err != nil {
				return err
			}
			token, exp, err := auth.NewJWTBearer(svc).Issue(&p)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", exp.UTC().Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&p.Subject, "subject", "", "token subject (user ID)")
	cmd.Flags().StringVar(&p.Name, "name", "", "display name claim")
	cmd.Flags().StringVar(&p.Email, "email", "", "email claim")
	cmd.Flags().StringSliceVar(&p.Roles, "role", nil, "role claim, repeatable")
	cmd.Flags().StringSliceVar(&p.Permissions, "permission", nil, "permission claim, repeatable")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default JWT_LIFETIME)")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
