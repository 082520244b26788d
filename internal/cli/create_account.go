package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"med-diagnosis-api/apiv1"
	"med-diagnosis-api/internal"
	"med-diagnosis-api/internal/config"
	"med-diagnosis-api/internal/logger"
)

var createAccountCmd = &cobra.Command{
	Use:   "create-account <username> <email> <password>",
	Short: "Create an admin account for the admin API",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := logger.New(cfg.LogLevel)

		account := apiv1.Account{
			Username: args[0],
			Email:    args[1],
			Password: args[2],
			IsActive: true,
		}
		// Validate eagerly so a bad argument does not surface as a
		// bare database error.
		if err := account.Validate(); err != nil {
			return err
		}

		db, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		dao := internal.NewDAO[apiv1.Account](db)
		if err := dao.AutoMigrate(); err != nil {
			return err
		}

		if err := dao.Create(&account); err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}

		log.Info("account created", "username", account.Username, "id", account.ID)
		return nil
	},
}
