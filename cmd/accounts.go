package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"agsync/config"
	"agsync/internal/utils"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Manage the authoritative account list",
	Long: `Manage the account list that feeds the accounts file reconciliation.

Accounts added here are projected into antigravity-accounts.json by
'agsync sync --accounts'. Disabled accounts are kept locally but left out
of the projection.`,
}

func init() {
	rootCmd.AddCommand(accountsCmd)
	accountsCmd.AddCommand(accountsAddCmd)
	accountsCmd.AddCommand(accountsListCmd)
	accountsCmd.AddCommand(accountsRemoveCmd)
	accountsCmd.AddCommand(accountsEnableCmd)
	accountsCmd.AddCommand(accountsDisableCmd)
}

var accountsAddProject string

var accountsAddCmd = &cobra.Command{
	Use:   "add [email]",
	Short: "Add an account (or update its refresh token)",
	Long: `Add an account. The refresh token is read from stdin so it never
appears in shell history:

  agsync accounts add user@gmail.com < token.txt
  echo "$TOKEN" | agsync accounts add user@gmail.com --project my-project`,
	Args: cobra.ExactArgs(1),
	Run:  runAccountsAdd,
}

func init() {
	accountsAddCmd.Flags().StringVar(&accountsAddProject, "project", "", "Google Cloud project id for this account")
}

func runAccountsAdd(cmd *cobra.Command, args []string) {
	email := args[0]

	if isInteractiveTerminal() {
		fmt.Fprint(os.Stderr, "Refresh token: ")
	}
	reader := bufio.NewReader(os.Stdin)
	token, err := reader.ReadString('\n')
	if err != nil && token == "" {
		fmt.Fprintf(os.Stderr, "Error: failed to read refresh token: %v\n", err)
		os.Exit(1)
	}
	token = strings.TrimSpace(token)

	manager := newAccountManager()
	account, err := manager.Add(email, token, accountsAddProject)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Added account %s (%s)\n", account.Email, account.ID)
}

var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		manager := newAccountManager()
		accounts, err := manager.List()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if len(accounts) == 0 {
			fmt.Println("No accounts configured")
			return
		}

		fmt.Println("Accounts:")
		for _, a := range accounts {
			state := "enabled"
			if a.Disabled {
				state = "disabled"
			} else if a.ProxyDisabled {
				state = "proxy-disabled"
			}

			lastUsed := "never"
			if a.LastUsed > 0 {
				lastUsed = time.UnixMilli(a.LastUsed).Format("2006-01-02 15:04")
			}

			fmt.Printf("  %s  %-30s token: %s  %s  last used: %s\n",
				a.ID, a.Email, utils.MaskAPIKey(a.RefreshToken), state, lastUsed)
		}
	},
}

var accountsRemoveCmd = &cobra.Command{
	Use:   "remove [id-or-email]",
	Short: "Remove an account",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		manager := newAccountManager()
		if err := manager.Remove(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✅ Removed account %s\n", args[0])
	},
}

var accountsEnableCmd = &cobra.Command{
	Use:   "enable [id-or-email]",
	Short: "Re-enable an account for syncing",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		manager := newAccountManager()
		if err := manager.SetDisabled(args[0], false); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := manager.SetProxyDisabled(args[0], false); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✅ Enabled account %s\n", args[0])
	},
}

var accountsDisableProxyOnly bool

var accountsDisableCmd = &cobra.Command{
	Use:   "disable [id-or-email]",
	Short: "Exclude an account from syncing",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		manager := newAccountManager()
		var err error
		if accountsDisableProxyOnly {
			err = manager.SetProxyDisabled(args[0], true)
		} else {
			err = manager.SetDisabled(args[0], true)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✅ Disabled account %s\n", args[0])
	},
}

func init() {
	accountsDisableCmd.Flags().BoolVar(&accountsDisableProxyOnly, "proxy-only", false, "keep the account but exclude it from the proxy rotation")
}

func newAccountManager() *config.Manager {
	manager, err := config.NewManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return manager
}
