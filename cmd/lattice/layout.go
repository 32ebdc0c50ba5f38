package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/latticehq/lattice/pkg/layout"
)

// layoutCmd represents the layout command
var layoutCmd = &cobra.Command{
	Use:   "layout <workflow-id>",
	Short: "Recompute node positions for a workflow",
	Long:  `Loads a workflow, runs the layered auto-layout and saves the repositioned graph back to the store.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		direction, _ := cmd.Flags().GetString("direction")

		dir, err := layout.ParseDirection(direction)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		store, err := openStore(cmd)
		if err != nil {
			fmt.Printf("Error opening store: %v\n", err)
			os.Exit(1)
		}

		ctx := context.Background()
		wf, err := store.Load(ctx, args[0])
		if err != nil {
			fmt.Printf("Error loading workflow: %v\n", err)
			os.Exit(1)
		}

		nodes, err := layout.NewEngine().Layout(wf.Nodes, wf.Edges, dir)
		if err != nil {
			fmt.Printf("Layout failed: %v\n", err)
			os.Exit(1)
		}
		wf.Nodes = nodes

		if err := store.Save(ctx, wf); err != nil {
			fmt.Printf("Error saving workflow: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Laid out %d nodes (%s)\n", len(nodes), dir)
	},
}

func init() {
	rootCmd.AddCommand(layoutCmd)
	layoutCmd.Flags().String("direction", "LR", "Layout direction: LR or TB")
	addRedisFlags(layoutCmd)
}
