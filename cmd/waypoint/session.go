package main

import (
	"errors"

	"github.com/aretw0/waypoint/internal/cli"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect and manage stored sessions",
	Long: `Save, load, summarize and remove workflow snapshots.
Without --id the commands act on the global slot.`,
}

// withApp opens the store for the duration of a session subcommand.
func withApp(run func(cmd *cobra.Command, app *cli.App, id string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		id, _ := cmd.Flags().GetString("id")
		return run(cmd, app, id)
	}
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resumable snapshot as JSON",
	RunE: withApp(func(cmd *cobra.Command, app *cli.App, id string) error {
		return cli.ShowSession(cmd.Context(), cmd.OutOrStdout(), app, id)
	}),
}

var sessionExistsCmd = &cobra.Command{
	Use:   "exists",
	Short: "Report whether a resumable snapshot exists (exit status 1 if not)",
	RunE: withApp(func(cmd *cobra.Command, app *cli.App, id string) error {
		if !cli.SessionExists(cmd.Context(), cmd.OutOrStdout(), app, id) {
			return errSilentExit
		}
		return nil
	}),
}

var sessionSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show who the session belongs to, its step and how long ago it was saved",
	RunE: withApp(func(cmd *cobra.Command, app *cli.App, id string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		err := cli.SummarizeSession(cmd.Context(), cmd.OutOrStdout(), app, id, asJSON)
		if errors.Is(err, cli.ErrNoSession) && !asJSON {
			return nil
		}
		return err
	}),
}

var sessionSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save a snapshot from a JSON file and/or key=value assignments",
	Example: `  waypoint session save --file snapshot.json
  waypoint session save --id wf-1 --set currentStep=payment --set formData.firstName=Ada`,
	RunE: withApp(func(cmd *cobra.Command, app *cli.App, id string) error {
		file, _ := cmd.Flags().GetString("file")
		set, _ := cmd.Flags().GetStringArray("set")
		return cli.SaveSession(cmd.Context(), cmd.OutOrStdout(), app, id, cli.SaveOptions{
			File:  file,
			Set:   set,
			Stdin: cmd.InOrStdin(),
		})
	}),
}

var sessionClearCmd = &cobra.Command{
	Use:     "clear",
	Aliases: []string{"rm"},
	Short:   "Remove the stored snapshot",
	RunE: withApp(func(cmd *cobra.Command, app *cli.App, id string) error {
		cli.ClearSession(cmd.Context(), cmd.OutOrStdout(), app, id)
		return nil
	}),
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored workflow ids",
	RunE: withApp(func(cmd *cobra.Command, app *cli.App, _ string) error {
		return cli.ListSessions(cmd.Context(), cmd.OutOrStdout(), app)
	}),
}

var sessionSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Evict expired, outdated and empty snapshots",
	RunE: withApp(func(cmd *cobra.Command, app *cli.App, _ string) error {
		return cli.SweepSessions(cmd.Context(), cmd.OutOrStdout(), app)
	}),
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.PersistentFlags().String("id", "", "Workflow id (defaults to the global slot)")

	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionExistsCmd)
	sessionCmd.AddCommand(sessionSummaryCmd)
	sessionCmd.AddCommand(sessionSaveCmd)
	sessionCmd.AddCommand(sessionClearCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionSweepCmd)

	sessionSummaryCmd.Flags().Bool("json", false, "Print the summary as JSON")
	sessionSaveCmd.Flags().StringP("file", "f", "", "JSON snapshot to save (- for stdin)")
	sessionSaveCmd.Flags().StringArray("set", nil, "Assignment key=value, repeatable (nested keys with dots)")
}
