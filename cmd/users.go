package cmd

import (
	"fmt"
	"time"

	"erp-project/backend/models"
	"erp-project/backend/services"
	"erp-project/backend/utils"

	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage local user records",
}

var (
	grantEmail string
	grantRole  string
)

var usersGrantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Create or update a user record with a role and its default permissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		stores, closeStores, err := openStores(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeStores(cmd.Context())

		user, err := services.NewUserService(stores.Users).Grant(cmd.Context(), grantEmail, models.Role(grantRole))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s (%s)\n", user.Email, user.Role, user.ID.Hex())
		return nil
	},
}

var (
	tokenEmail   string
	tokenSubject string
	tokenTTL     time.Duration
)

// tokenCmd mints HS256 session tokens for local development against
// CLERK_JWT_SECRET.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a development session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		if cfg.ClerkJWTSecret == "" {
			return fmt.Errorf("CLERK_JWT_SECRET is not set")
		}
		subject := tokenSubject
		if subject == "" {
			subject = "dev_" + tokenEmail
		}
		token, err := utils.GenerateSessionToken([]byte(cfg.ClerkJWTSecret), subject, tokenEmail, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	usersGrantCmd.Flags().StringVar(&grantEmail, "email", "", "email of the user")
	usersGrantCmd.Flags().StringVar(&grantRole, "role", string(models.RoleUser), "one of user, team_member, sales_finance, project_manager, admin")
	_ = usersGrantCmd.MarkFlagRequired("email")
	usersCmd.AddCommand(usersGrantCmd)

	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email claim")
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "subject claim (defaults to dev_<email>)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 12*time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("email")
}
