package commands

import (
	"context"
	"fmt"
	"os"
	"umsassist-backend/internal/components/configutil"
	"umsassist-backend/internal/components/telemetry"

	"github.com/spf13/cobra"
)

var verbose *bool

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging.")
}

var rootCmd = &cobra.Command{
	Use:   "ums-cli",
	Short: "ums-cli scrapes the portal and inspects cached data by hand.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(*verbose)
		return configutil.LoadDotenv(".env")
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
