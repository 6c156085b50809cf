package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"repairshop/internal/config"
	"repairshop/internal/model"
	"repairshop/internal/service"
)

var (
	adminUsername string
	adminEmail    string
	adminPassword string
)

// createAdminCmd bootstraps the first account; later users are created
// through the API by an admin.
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		if cfg.Storage.Driver == "memory" {
			return fmt.Errorf("create-admin needs persistent storage, storage.driver is %q", cfg.Storage.Driver)
		}
		if adminPassword == "" {
			adminPassword = os.Getenv("REPAIRSHOP_ADMIN_PASSWORD")
		}

		logger := config.NewLogger(cfg.Log, os.Stderr)
		b, err := openBackend(cfg, logger)
		if err != nil {
			return err
		}
		defer b.close()

		users := service.NewUserService(b.users, b.clients, []byte(cfg.JWT.Secret), cfg.JWT.TTL)
		user, err := users.CreateUser(cmd.Context(), service.CreateUserRequest{
			Username: adminUsername,
			Email:    adminEmail,
			Password: adminPassword,
			Role:     model.RoleAdmin,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", user.Username, user.ID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "admin", "admin username")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "admin e-mail")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "admin password (or REPAIRSHOP_ADMIN_PASSWORD)")
	_ = createAdminCmd.MarkFlagRequired("email")
}
