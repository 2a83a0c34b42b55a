// Command clinician-token issues bearer tokens for GET /screening/history.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ZanzyTHEbar/neuroweave/internal/config"
	"github.com/ZanzyTHEbar/neuroweave/internal/security"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "clinician-token <subject>",
		Short: "Issue a clinician access token",
		Long: `Signs a clinician token with CLINICIAN_JWT_SECRET, read from the
environment or from .env.local / .env in the working directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("ttl") {
				ttl = cfg.ClinicianTokenTTL
			}

			token, err := security.NewClinicianAuth(cfg.ClinicianJWTSecret, ttl).IssueToken(args[0])
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime (defaults to CLINICIAN_TOKEN_TTL)")
	return cmd
}
