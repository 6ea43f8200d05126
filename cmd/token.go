package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/BrewMyTech/grok-mcp/auth"

	"github.com/spf13/cobra"
)

var (
	tokenSubject string
	tokenTTL     time.Duration

	tokenCmd = &cobra.Command{
		Use:   "token",
		Short: "mint a bearer token for the http transport",
		RunE:  runTokenCmd,
	}
)

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "grok-mcp-client", "token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")

	rootCmd.AddCommand(tokenCmd)
}

func runTokenCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Secret == "" {
		return errors.New(auth.SecretEnv + " is not set")
	}

	raw, err := auth.NewTWithSecret([]byte(cfg.Secret)).WithTTL(tokenTTL).Create(tokenSubject)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), raw)
	return nil
}
