package cmd

import (
	"fmt"
	"os"

	"github.com/BrewMyTech/grok-mcp/config"
	"github.com/BrewMyTech/grok-mcp/logger"

	"github.com/spf13/cobra"
)

var (
	cfgfile string
	v       = config.New()

	rootCmd = &cobra.Command{
		Use:           "grok-mcp",
		Short:         "MCP tool server for the Grok API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgfile, "config", os.Getenv("GROK_MCP_CONFIG"), "config file (yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	cobra.CheckErr(v.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level")))
}

func initConfig() {
	cobra.CheckErr(config.ReadFile(v, cfgfile))
	logger.SetLevel(v.GetString(config.KeyLogLevel))
}

func loadConfig() (*config.Config, error) {
	return config.Load(v)
}

// bind attaches a command flag to a config key.
func bind(cmd *cobra.Command, key, flag string) {
	cobra.CheckErr(v.BindPFlag(key, cmd.Flags().Lookup(flag)))
}

// Execute runs the CLI. Any failure is reported on stderr with exit status 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
