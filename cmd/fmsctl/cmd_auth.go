package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token in the config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		api := newClient(cfg)
		resp, err := api.Login(cmd.Context(), loginEmail, loginPassword)
		if err != nil {
			return err
		}
		cfg.Token = resp.Token
		cfg.UserID = resp.Usuario.ID
		if err := cfg.Save(configPath); err != nil {
			return err
		}
		fmt.Printf("Logged in as %s (id %d)\n", resp.Usuario.Nombre, resp.Usuario.ID)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.Token = ""
		cfg.UserID = 0
		return cfg.Save(configPath)
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password")
	loginCmd.MarkFlagRequired("email")
	loginCmd.MarkFlagRequired("password")
}
