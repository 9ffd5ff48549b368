// auth.go - rosterctl login, logout and whoami

package cli

import (
	"github.com/spf13/cobra"
)

func loginCmd(app *App) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := app.Users.Authenticate(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if err := app.Session.Login(res.User, res.Token); err != nil {
				return err
			}
			app.printf("Signed in as %s %s (%s)\n", res.User.Name, res.User.Surname, res.User.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(*cobra.Command, []string) error {
			if err := app.Session.Logout(); err != nil {
				return err
			}
			app.printf("Signed out\n")
			return nil
		},
	}
}

func whoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(*cobra.Command, []string) error {
			u, ok := app.Session.User()
			if !ok {
				return errSignedOut
			}
			app.printf("%s\n", headingStyle.Render(u.PlayerName()))
			app.printf("id: %s\nemail: %s\nrole: %s\ncategory: %s\n", u.ID, u.Email, u.Role, u.Category)
			return nil
		},
	}
}
