package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"agsync/internal/opencode"
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore opencode.json and the accounts file from their backups",
	Long: `Put both managed files back to the state captured when agsync first
modified them. Restoring consumes the backups: a later sync takes a fresh
snapshot.`,
	Args: cobra.NoArgs,
	Run:  runRestore,
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}

func runRestore(cmd *cobra.Command, args []string) {
	syncer, err := opencode.NewSyncer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := syncer.Restore(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Restored OpenCode configuration from backup")
}
