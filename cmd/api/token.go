package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/suar-net/starter-be/internal/service"
)

func newTokenCommand(envFile *string) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the item write routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadEnvironment(*envFile)
			if err != nil {
				return err
			}
			defer log.Sync()

			if !cfg.JWT.Enabled() {
				return errors.New("JWT_SECRET is not set")
			}
			if ttl > 0 {
				cfg.JWT.AccessTokenExpiresIn = ttl
			}

			token, err := service.NewAuthService(cfg.JWT).IssueToken(subject)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", token.TokenType, token.AccessToken)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "developer", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime, defaults to JWT_TTL")
	return cmd
}
