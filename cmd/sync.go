package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"agsync/config"
	"agsync/config/validation"
	"agsync/internal/opencode"
	"agsync/internal/tui"
)

var (
	syncURL      string
	syncAPIKey   string
	syncAccounts bool
	syncModels   []string
	syncSelect   bool
	syncNoPrompt bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the managed provider into opencode.json",
	Long: `Merge the antigravity-manager provider into OpenCode's configuration.

The existing file is backed up on first modification; everything outside
the managed provider is left byte-for-byte untouched. Re-running the same
sync is a no-op.

Examples:
  agsync sync --url http://127.0.0.1:8045 --api-key dummy
  agsync sync --url http://127.0.0.1:8045 --api-key dummy --models claude-sonnet-4-5,gemini-3-flash
  agsync sync --url http://127.0.0.1:8045 --api-key dummy --accounts --select`,
	Args: cobra.NoArgs,
	Run:  runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().StringVarP(&syncURL, "url", "u", "", "Antigravity proxy base URL (required)")
	syncCmd.Flags().StringVarP(&syncAPIKey, "api-key", "k", "", "API key to write into the managed provider (required)")
	syncCmd.Flags().BoolVar(&syncAccounts, "accounts", false, "also reconcile the antigravity-accounts.json file")
	syncCmd.Flags().StringSliceVarP(&syncModels, "models", "m", nil, "model ids to sync (default: full catalog)")
	syncCmd.Flags().BoolVar(&syncSelect, "select", false, "pick models interactively")
	syncCmd.Flags().BoolVar(&syncNoPrompt, "no-prompt", false, "never prompt; sync the full catalog when --models is absent")
	syncCmd.MarkFlagRequired("url")
	syncCmd.MarkFlagRequired("api-key")
}

func runSync(cmd *cobra.Command, args []string) {
	modelIDs, err := resolveModelIDs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	syncer, err := opencode.NewSyncer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := opencode.SyncOptions{
		ProxyURL: syncURL,
		APIKey:   syncAPIKey,
		ModelIDs: modelIDs,
	}

	if syncAccounts {
		manager, err := config.NewManager()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		accounts, err := manager.List()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		opts.Accounts = accounts
	}

	if err := syncer.Sync(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if modelIDs == nil {
		fmt.Println("✅ Synced all catalog models to", syncer.ConfigPath())
	} else {
		fmt.Printf("✅ Synced %d model(s) to %s\n", len(modelIDs), syncer.ConfigPath())
	}
	if syncAccounts {
		fmt.Println("✅ Reconciled", syncer.AccountsPath())
	}
}

// resolveModelIDs turns the --models / --select flags into the model id
// selector: nil means the full catalog.
func resolveModelIDs() ([]string, error) {
	if len(syncModels) > 0 {
		validator := validation.NewInputValidator()
		ids, err := validator.ValidateModelIDs(syncModels)
		if err != nil {
			return nil, err
		}
		return ids, nil
	}

	selector := NewModelSelector()
	if !selector.ShouldPrompt(syncSelect, syncNoPrompt) {
		return nil, nil
	}

	ids, ok, err := tui.SelectModels()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("model selection cancelled")
	}
	return ids, nil
}
