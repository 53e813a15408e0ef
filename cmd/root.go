package cmd

import (
	"items-api/internal/version"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "items-api",
	Short: "Items API with Google sign-in",
	Long: `items-api serves a small items catalogue behind Google OAuth2 login.
Sessions are stateless HS256 tokens and the login endpoints are rate limited
per client.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = version.GetVersion()
	rootCmd.SetVersionTemplate(`{{printf "items-api version %s\n" .Version}}`)

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
