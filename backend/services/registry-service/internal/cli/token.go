package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"chargesol/backend/services/registry-service/internal/auth"
)

// Token returns the command minting development tokens.
func Token() *cobra.Command {
	var (
		secret string
		userID int64
		role   string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development token for a local registry service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				secret = os.Getenv("REGISTRY_JWT_SECRET")
			}
			if secret == "" {
				return errors.New("a signing secret is required (--secret or REGISTRY_JWT_SECRET)")
			}
			token, err := auth.NewTokenService(secret, ttl).GenerateToken(userID, role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "HS256 signing secret")
	cmd.Flags().Int64Var(&userID, "user-id", 1, "Station owner id")
	cmd.Flags().StringVar(&role, "role", "owner", "Role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")

	return cmd
}
