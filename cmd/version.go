// Package cmd implements the command-line interface for vidpulse.
package cmd

import (
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/vidpulse/vidpulse/constant"
	"github.com/vidpulse/vidpulse/style"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
}

// versionCmd displays application version and platform metadata.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version and platform metadata",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("%s %s (%s/%s)\n",
			style.Bold(constant.Vidpulse),
			constant.Version,
			runtime.GOOS,
			runtime.GOARCH,
		)
	},
}
