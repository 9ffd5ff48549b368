// trainings.go - rosterctl trainings and categories commands

package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"go-training-backend/client"
	"go-training-backend/models"

	"github.com/spf13/cobra"
)

func trainingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trainings",
		Short: "Show and assign training sessions",
	}
	cmd.AddCommand(trainingsListCmd(app), trainingsMineCmd(app), trainingsAddCmd(app), trainingsDeleteCmd(app))
	return cmd
}

func trainingsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every training grouped by player (trainers only)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.requireTrainer(); err != nil {
				return err
			}
			trainings, err := app.Trainings.GetAll(cmd.Context())
			if err != nil {
				return err
			}
			if len(trainings) == 0 {
				app.printf("%s\n", mutedStyle.Render("No trainings"))
				return nil
			}

			groups := client.GroupByPlayer(trainings)
			playerIDs := make([]string, 0, len(groups))
			for id := range groups {
				playerIDs = append(playerIDs, id)
			}
			sort.Strings(playerIDs)
			for _, id := range playerIDs {
				app.printf("%s\n", headingStyle.Render(groups[id][0].PlayerName))
				if err := printTrainings(app, groups[id]); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func trainingsMineCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List the trainings assigned to the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, ok := app.Session.User()
			if !ok {
				return errSignedOut
			}
			trainings, err := app.Trainings.GetUserTrainings(cmd.Context(), u.ID)
			if err != nil {
				return err
			}
			if len(trainings) == 0 {
				app.printf("%s\n", mutedStyle.Render("No trainings scheduled"))
				return nil
			}
			return printTrainings(app, trainings)
		},
	}
}

func printTrainings(app *App, trainings []models.Training) error {
	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDAY\tPLAYER\tCREATED BY")
	for _, t := range trainings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.TrainingDay, t.PlayerName, t.CreatedBy)
	}
	return w.Flush()
}

func trainingsAddCmd(app *App) *cobra.Command {
	var form client.TrainingForm
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Assign a training to a player",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.requireTrainer(); err != nil {
				return err
			}
			trainer, _ := app.Session.User()
			player, err := app.Users.GetByID(cmd.Context(), form.PlayerID)
			if err != nil {
				return fmt.Errorf("player %s: %w", form.PlayerID, err)
			}
			if player.Role != models.RolePlayer { // Sessions are assigned to players only
				return fmt.Errorf("user %s is a %s: %w", player.ID, player.Role, errNotPlayer)
			}
			t, err := app.Trainings.Create(cmd.Context(), form, trainer, player.PlayerName())
			if err != nil {
				return err
			}
			app.printf("Created training %s for %s on %s\n", t.ID, t.PlayerName, t.TrainingDay)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.PlayerID, "player", "", "player id")
	cmd.Flags().StringVar(&form.TrainingDay, "day", "", "arrival time, for example 2024-03-05T10:00")
	_ = cmd.MarkFlagRequired("player")
	_ = cmd.MarkFlagRequired("day")
	return cmd
}

func trainingsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a training",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireTrainer(); err != nil {
				return err
			}
			if err := app.Trainings.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			app.printf("Deleted training %s\n", args[0])
			return nil
		},
	}
}

func categoriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the available user categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, c := range app.Categories.GetAll(cmd.Context()) {
				app.printf("%s\t%s\n", c.ID, c.Name)
			}
			return nil
		},
	}
}
