package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"agsync/internal/opencode"
)

var (
	clearURL    string
	clearLegacy bool
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the managed provider from opencode.json",
	Long: `Remove the antigravity-manager provider from OpenCode's configuration
and return the accounts file to its pre-sync state.

With --legacy, entries that earlier releases wrote into the plain
"anthropic" and "google" providers are also cleaned up; --url is required
for that so only options pointing at this proxy are touched.`,
	Args: cobra.NoArgs,
	Run:  runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().StringVarP(&clearURL, "url", "u", "", "Antigravity proxy base URL (required with --legacy)")
	clearCmd.Flags().BoolVar(&clearLegacy, "legacy", false, "also clean up entries in the anthropic/google providers")
}

func runClear(cmd *cobra.Command, args []string) {
	if clearLegacy && clearURL == "" {
		fmt.Fprintln(os.Stderr, "Error: --legacy requires --url to identify this proxy's entries")
		os.Exit(1)
	}

	syncer, err := opencode.NewSyncer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := syncer.Clear(clearURL, clearLegacy); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Removed managed provider from", syncer.ConfigPath())
}
