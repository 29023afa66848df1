package command

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"yamdb/internal/http-api/repository"
	"yamdb/internal/http-api/service"
	"yamdb/internal/mailer"
	"yamdb/internal/middleware/auth"
)

var (
	adminUsername string
	adminEmail    string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a superuser with the admin role",
	Long: `Create the first administrator. Follow up with "yamdbctl issue-code"
(or a normal sign-up with the same username and email) to obtain a token.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		db, closeDB, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer closeDB()

		users := service.NewUserService(repository.NewUserRepository(db), log)
		u, err := users.CreateSuperuser(ctx, adminUsername, adminEmail)
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}

		success("Administrator created")
		fmt.Printf("Username: %s\n", u.Username)
		fmt.Printf("Email: %s\n", u.Email)
		return nil
	},
}

var issueCodeCmd = &cobra.Command{
	Use:   "issue-code [username]",
	Short: "Print a fresh confirmation code for a user",
	Long: `Print a confirmation code without sending mail. Exchange it at
POST /auth/token/ for an access token. The code stops working once used.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		db, closeDB, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer closeDB()

		codes, err := auth.NewCodeGenerator(cfg.JWTSecret, cfg.ConfirmationCodeTTL)
		if err != nil {
			return err
		}
		mail, err := mailer.New(cfg, log)
		if err != nil {
			return err
		}
		authService := service.NewAuthService(repository.NewUserRepository(db), codes, mail, cfg, log)

		code, err := authService.IssueCode(ctx, args[0])
		if err != nil {
			return fmt.Errorf("issue code for %s: %w", args[0], err)
		}

		success("Confirmation code for %s (valid for %s)", args[0], cfg.ConfirmationCodeTTL)
		color.New(color.Bold).Println(code)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "administrator username")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "administrator email")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("email")
}
