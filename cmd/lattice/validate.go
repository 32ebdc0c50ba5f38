package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/latticehq/lattice/internal/validator"
	"github.com/latticehq/lattice/pkg/registry"
)

var validateCmd = &cobra.Command{
	Use:   "validate <workflow-id>",
	Short: "Check a workflow graph for consistency",
	Long:  `Loads a workflow and reports duplicate ids, dangling edges, invalid payloads and unreachable nodes.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd, args[0]); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Workflow is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	addRedisFlags(validateCmd)
}

func runValidate(cmd *cobra.Command, id string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	wf, err := store.Load(context.Background(), id)
	if err != nil {
		return err
	}
	return validator.Validate(wf, registry.New())
}
