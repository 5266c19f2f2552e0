// Package main is the entry point for the crafting engine server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "craft-api",
	Short: "Crafting and progression engine",
	Long:  `craft-api runs the profession crafting engine: catalog, eligibility, craft outcomes, XP progression, and attempt history.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(validateCmd)
}
