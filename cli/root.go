// root.go - rosterctl root command

package cli

import (
	"github.com/spf13/cobra"
)

// RootCmd builds the rosterctl command tree.
func RootCmd(opts Options) *cobra.Command {
	var apiURL string
	app := &App{}
	root := &cobra.Command{
		Use:           "rosterctl",
		Short:         "Manage the training roster from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			built, err := newApp(opts, apiURL)
			if err != nil {
				return err
			}
			*app = *built
			return nil
		},
	}
	root.PersistentFlags().StringVar(&apiURL, "api-url", "", "server base URL (default from API_URL)")
	if opts.Out != nil {
		root.SetOut(opts.Out)
	}

	root.AddCommand(
		loginCmd(app),
		logoutCmd(app),
		whoamiCmd(app),
		usersCmd(app),
		trainingsCmd(app),
		categoriesCmd(app),
	)
	return root
}
