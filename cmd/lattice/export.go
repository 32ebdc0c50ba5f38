package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/latticehq/lattice/internal/presentation/graph"
	"github.com/latticehq/lattice/pkg/registry"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <workflow-id>",
	Short: "Export a workflow graph visualization",
	Long:  `Loads a workflow and outputs a Mermaid flowchart representing its nodes and edges.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openStore(cmd)
		if err != nil {
			fmt.Printf("Error opening store: %v\n", err)
			os.Exit(1)
		}

		wf, err := store.Load(context.Background(), args[0])
		if err != nil {
			fmt.Printf("Error loading workflow: %v\n", err)
			os.Exit(1)
		}

		fmt.Print(graph.GenerateMermaid(wf, registry.New()))
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	addRedisFlags(exportCmd)
}
