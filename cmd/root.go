package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version information
var (
	version string
	commit  string
	date    string
)

// SetVersionInfo sets the version information
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "agsync",
	Short: "Keep OpenCode configured against a local Antigravity proxy",
	Long: `agsync keeps the OpenCode CLI's configuration in sync with a locally
running Antigravity proxy: it merges the managed provider into
~/.config/opencode/opencode.json, reconciles the companion accounts file,
and can undo everything from first-write backups.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	log.SetOutput(os.Stderr)
}

// Execute executes the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(`agsync {{.Version}}
Commit: ` + commit + `
Date: ` + date + `
`)

	return rootCmd.Execute()
}
