package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"agsync/internal/opencode"
)

var (
	statusURL  string
	statusJSON bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show installation and sync status",
	Long:  "Show whether OpenCode is installed and whether its configuration points at the given proxy URL",
	Args:  cobra.NoArgs,
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringVarP(&statusURL, "url", "u", "", "Antigravity proxy base URL to compare against (required)")
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "print status as JSON")
	statusCmd.MarkFlagRequired("url")
}

func runStatus(cmd *cobra.Command, args []string) {
	syncer, err := opencode.NewSyncer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	status := syncer.Status(statusURL)

	if statusJSON {
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	if status.Installed {
		fmt.Printf("✅ OpenCode installed (version %s)\n", status.Version)
	} else {
		fmt.Println("⚪ OpenCode not found")
	}

	if status.IsSynced {
		fmt.Printf("✅ Synced to %s\n", status.CurrentBaseURL)
	} else if status.CurrentBaseURL != "" {
		fmt.Printf("❌ Not synced: configured against %s\n", status.CurrentBaseURL)
	} else {
		fmt.Println("❌ Not synced: managed provider absent")
	}

	if status.HasBackup {
		fmt.Println("💾 Backup available ('agsync restore' to revert)")
	}
}
