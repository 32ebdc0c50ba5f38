package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/latticehq/lattice/pkg/dsl"
)

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new <workflow-id>",
	Short: "Create a workflow from the starter template",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("name")

		store, err := openStore(cmd)
		if err != nil {
			fmt.Printf("Error opening store: %v\n", err)
			os.Exit(1)
		}

		wf := dsl.Instantiate(dsl.WelcomeTemplate())
		wf.ID = args[0]
		if name != "" {
			wf.Name = name
		}

		if err := store.Save(context.Background(), wf); err != nil {
			fmt.Printf("Error saving workflow: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created workflow %q with %d nodes\n", wf.ID, len(wf.Nodes))
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().String("name", "", "Display name for the workflow")
	addRedisFlags(newCmd)
}
