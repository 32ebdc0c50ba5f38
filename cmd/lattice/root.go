package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lattice",
	Short: "Lattice is a workflow graph editor engine",
	Long:  `Lattice edits, validates and lays out workflow graphs stored as YAML files or in Redis.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", "./workflows", "Directory containing workflow YAML files")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
}
