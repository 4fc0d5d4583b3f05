package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"agsync/internal/opencode"
)

var catCmd = &cobra.Command{
	Use:   "cat [file]",
	Short: "Print one of the managed files",
	Long: `Print the raw contents of a managed file. Only ` +
		strings.Join(opencode.ManagedFiles, ", ") + ` can be read;
the default is opencode.json.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runCat,
}

func init() {
	rootCmd.AddCommand(catCmd)
}

func runCat(cmd *cobra.Command, args []string) {
	name := ""
	if len(args) == 1 {
		name = args[0]
	}

	syncer, err := opencode.NewSyncer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	content, err := syncer.ReadRawFile(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(content)
	if !strings.HasSuffix(content, "\n") {
		fmt.Println()
	}
}
