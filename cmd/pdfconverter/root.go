package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pdfconverter",
	Short: "PDF Converter - document conversion service",
	Long: `PDF Converter is a self-hosted document conversion service.

It converts uploaded DOCX and image files to PDF, tracks per-user balances
and free conversion quotas, and records every charge in a transaction ledger.
Configuration is environment-driven; see .env.example for recognized keys.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Optional .env for local runs; the container passes real env vars.
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Printf("Warning: .env file could not be loaded: %v", err)
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
