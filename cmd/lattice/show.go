package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/latticehq/lattice/internal/presentation/graph"
	"github.com/latticehq/lattice/internal/presentation/tui"
	"github.com/latticehq/lattice/pkg/registry"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <workflow-id>",
	Short: "Render a workflow summary in the terminal",
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

		markdown := graph.GenerateMarkdown(wf, registry.New())
		render := tui.NewRenderer()
		out, err := render(markdown)
		if err != nil {
			// Fall back to plain markdown when the terminal renderer fails.
			fmt.Println(markdown)
			return
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	addRedisFlags(showCmd)
}
