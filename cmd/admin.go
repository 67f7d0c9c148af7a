package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Shivanand-hulikatti/eventhub/internal/service"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Create the default administrator if none exists",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sys, closeStore, err := openSystem(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		// openSystem has already created the account when none existed, so
		// this only reports which administrator is present.
		id, _, err := sys.EnsureAdmin(cmd.Context(), service.AdminCredential{
			Username: cfg.Admin.Username,
			Password: cfg.Admin.Password,
			Email:    cfg.Admin.Email,
		})
		if err != nil {
			return err
		}
		admin, err := sys.GetUser(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "administrator %q ready (id %s)\n", admin.Username, admin.ID)
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report registrations that are not recorded on both sides",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sys, closeStore, err := openSystem(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		violations := sys.CheckConsistency()
		if len(violations) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "ok: no inconsistencies found")
			return nil
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(violations); err != nil {
			return err
		}
		return fmt.Errorf("%d inconsistencies found", len(violations))
	},
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)
	rootCmd.AddCommand(checkCmd)
}
