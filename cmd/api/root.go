package main

import (
	"os"

	"github.com/spf13/cobra"
)

var envFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "repairshop",
	Short: "Repair shop back office",
	Long:  `Serve the repair shop API (work orders, payments, inventory and the client portal) and manage its database.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "configs/.env", "dotenv file loaded before reading REPAIRSHOP_* variables")
	rootCmd.AddCommand(serveCmd, migrateCmd, createAdminCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
