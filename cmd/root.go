// Package cmd implements the command-line interface for vidpulse.
package cmd

import (
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vidpulse/vidpulse/color"
	"github.com/vidpulse/vidpulse/constant"
	"github.com/vidpulse/vidpulse/key"
	"github.com/vidpulse/vidpulse/log"
	"github.com/vidpulse/vidpulse/style"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")
}

// rootCmd defines the entry point for the vidpulse CLI.
var rootCmd = &cobra.Command{
	Use:   constant.Vidpulse,
	Short: "Scroll-driven video playback coordinator for feed surfaces",
	Long: style.Bold(constant.Vidpulse) + "\n" +
		style.Italic("  - decides which video surface in a scrolling feed may play, and when"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}
		_ = cmd.Help()
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", style.Fg(color.Red)("✗"), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
