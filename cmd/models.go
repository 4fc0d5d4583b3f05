package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"agsync/config/catalog"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the model catalog",
	Long:  "List the models the managed provider serves, in sync order",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Available models:")
		for _, def := range catalog.Models() {
			reasoning := ""
			if def.Reasoning {
				reasoning = "  [reasoning]"
			}
			fmt.Printf("  %-28s %-28s ctx %7d  out %6d%s\n",
				def.ID, def.Name, def.ContextLimit, def.OutputLimit, reasoning)
		}
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
