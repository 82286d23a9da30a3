package main

import (
	"fmt"
	"os"

	"github.com/julien-sobczak/the-notewriter-live/internal/logger"
	"github.com/spf13/cobra"
)

var verboseInfo bool
var verboseDebug bool
var verboseTrace bool

var rootCmd = &cobra.Command{
	Use:   "nt-live",
	Short: "Live rendering of Markdown notes",
	Long:  `Preview, check, and edit Markdown notes the way the live editor renders them.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Enable verbose output. The most verbose level wins when multiple flags are passsed.
		if verboseInfo {
			logger.CurrentLogger().SetVerboseLevel(logger.VerboseInfo)
		}
		if verboseDebug {
			logger.CurrentLogger().SetVerboseLevel(logger.VerboseDebug)
		}
		if verboseTrace {
			logger.CurrentLogger().SetVerboseLevel(logger.VerboseTrace)
		}
	},
}

func init() {
	// Use PersistentFlags to make flags accessible to sub-commands
	rootCmd.PersistentFlags().BoolVarP(&verboseInfo, "v", "", false, "enable verbose info output")
	rootCmd.PersistentFlags().BoolVarP(&verboseDebug, "vv", "", false, "enable verbose debug output")
	rootCmd.PersistentFlags().BoolVarP(&verboseTrace, "vvv", "", false, "enable verbose trace output")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
