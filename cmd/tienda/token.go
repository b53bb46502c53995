package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harentsoaR/tienda-ropa/internal/config"
	"github.com/harentsoaR/tienda-ropa/internal/utils"
)

func newTokenCmd(cfg config.Config) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a bearer token for the report API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := utils.GenerateJWT([]byte(cfg.API.JWTSecret), subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "report-reader", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
