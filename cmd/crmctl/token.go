package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"imobcrm/internal/pkg/jwt"
)

var (
	tokenUserID int64
	tokenRole   string
	tokenName   string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an operator JWT for local testing",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenUserID <= 0 {
			return fmt.Errorf("--user-id must be > 0")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		token, err := jwt.New(cfg.JWTSecret, cfg.JWTTTL).GenerateToken(tokenUserID, tokenRole, tokenName)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().Int64Var(&tokenUserID, "user-id", 0, "operator id")
	tokenCmd.Flags().StringVar(&tokenRole, "role", "broker", "operator role")
	tokenCmd.Flags().StringVar(&tokenName, "name", "", "operator display name")
	rootCmd.AddCommand(tokenCmd)
}
