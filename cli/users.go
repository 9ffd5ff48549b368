// users.go - rosterctl users commands

package cli

import (
	"fmt"
	"text/tabwriter"

	"go-training-backend/client"
	"go-training-backend/models"

	"github.com/spf13/cobra"
)

func usersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List and edit roster members (trainers only)",
	}
	cmd.AddCommand(usersListCmd(app), usersAddCmd(app), usersUpdateCmd(app), usersDeleteCmd(app))
	return cmd
}

func usersListCmd(app *App) *cobra.Command {
	var players bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.requireTrainer(); err != nil {
				return err
			}
			var (
				users []models.User
				err   error
			)
			if players {
				users, err = app.Users.GetPlayers(cmd.Context())
			} else {
				users, err = app.Users.GetAll(cmd.Context())
			}
			if err != nil {
				return err
			}
			return printUsers(app, users)
		},
	}
	cmd.Flags().BoolVar(&players, "players", false, "only list players")
	return cmd
}

func printUsers(app *App, users []models.User) error {
	if len(users) == 0 {
		app.printf("%s\n", mutedStyle.Render("No users"))
		return nil
	}
	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tCATEGORY\tROLE")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\t%s\n", u.ID, u.Name, u.Surname, u.Email, u.Category, u.Role)
	}
	return w.Flush()
}

// userFormFlags binds the UserForm fields to flags on cmd.
func userFormFlags(cmd *cobra.Command, form *client.UserForm) {
	cmd.Flags().StringVar(&form.Name, "name", "", "first name")
	cmd.Flags().StringVar(&form.Surname, "surname", "", "last name")
	cmd.Flags().StringVar(&form.Password, "password", "", "password")
	cmd.Flags().StringVar(&form.Email, "email", "", "email address")
	cmd.Flags().StringVar(&form.Category, "category", "", "category, for example U10")
	cmd.Flags().StringVar(&form.Role, "role", string(models.RolePlayer), "Trainer or Player")
}

func usersAddCmd(app *App) *cobra.Command {
	var form client.UserForm
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.requireTrainer(); err != nil {
				return err
			}
			u, err := app.Users.Create(cmd.Context(), form)
			if err != nil {
				return err
			}
			app.printf("Created user %s (%s)\n", u.ID, u.Email)
			return nil
		},
	}
	userFormFlags(cmd, &form)
	return cmd
}

func usersUpdateCmd(app *App) *cobra.Command {
	var form client.UserForm
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a user's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireTrainer(); err != nil {
				return err
			}
			u, err := app.Users.Update(cmd.Context(), args[0], form)
			if err != nil {
				return err
			}
			app.printf("Updated user %s\n", u.ID)
			return nil
		},
	}
	userFormFlags(cmd, &form)
	return cmd
}

func usersDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a user; their trainings are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireTrainer(); err != nil {
				return err
			}
			if err := app.Users.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			app.printf("Deleted user %s\n", args[0])
			return nil
		},
	}
}
