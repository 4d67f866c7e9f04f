package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/experience-validator/internal/config"
	"github.com/jonathan/experience-validator/internal/server"
)

var (
	tokenSubject string
	tokenScope   string
)

var issueTokenCmd = &cobra.Command{
	Use:   "issue-token",
	Short: "Issue a bearer token for the API's write routes",
	Long:  "Signs a JWT with JWT_SECRET for an operator. The token expires after JWT_EXPIRATION_HOURS.",
	RunE:  runIssueToken,
}

func init() {
	issueTokenCmd.Flags().StringVarP(&tokenSubject, "subject", "s", "", "Operator the token is issued to (required)")
	issueTokenCmd.Flags().StringVar(&tokenScope, "scope", "write", "Scope claim recorded in the token")

	if err := issueTokenCmd.MarkFlagRequired("subject"); err != nil {
		panic(fmt.Sprintf("failed to mark subject flag as required: %v", err))
	}

	rootCmd.AddCommand(issueTokenCmd)
}

func runIssueToken(cmd *cobra.Command, _ []string) error {
	cfg, err := config.NewJWTConfig()
	if errors.Is(err, config.ErrJWTNotConfigured) {
		return fmt.Errorf("JWT_SECRET environment variable is required to issue tokens")
	}
	if err != nil {
		return err
	}

	token, err := server.NewJWTService(cfg).GenerateToken(tokenSubject, tokenScope)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
