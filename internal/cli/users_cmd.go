package cli

import (
	"fmt"

	"github.com/alexanderramin/accredit/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newUsersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List users and manage their training",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List users",
			RunE: func(cmd *cobra.Command, args []string) error {
				users, err := app.Catalogs.Users.List(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatUsers(users, app.now()))
				return nil
			},
		},
		newUsersTrainingCmd(app),
		newUsersAssignTrainingCmd(app),
		newUsersCompleteTrainingCmd(app),
	)

	return cmd
}

func newUsersTrainingCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "training USER",
		Short: "Show a user's training assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			u, err := app.Catalogs.Users.Get(ctx, args[0])
			if err != nil {
				return err
			}
			trainings, err := app.Catalogs.Trainings.List(ctx)
			if err != nil {
				return err
			}
			titles := make(map[string]string, len(trainings))
			for _, t := range trainings {
				titles[t.ID] = t.Title
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTrainings(u, titles, app.now()))
			return nil
		},
	}
}

func newUsersAssignTrainingCmd(app *App) *cobra.Command {
	var due string

	cmd := &cobra.Command{
		Use:   "assign-training USER TRAINING",
		Short: "Assign a training program to a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dueDate, err := parseDate("due", due)
			if err != nil {
				return err
			}
			u, err := app.Catalogs.Users.AssignTraining(ctx, args[0], args[1], dueDate)
			if err != nil {
				return err
			}
			if err := app.persist(ctx, fmt.Sprintf("assign %s to %s", args[1], u.Name)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Assigned %s to %s, due %s\n", args[1], u.Name, due)
			return nil
		},
	}

	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("due")

	return cmd
}

func newUsersCompleteTrainingCmd(app *App) *cobra.Command {
	var score int

	cmd := &cobra.Command{
		Use:   "complete-training USER TRAINING",
		Short: "Mark a training assignment complete",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var scorePtr *int
			if cmd.Flags().Changed("score") {
				scorePtr = &score
			}
			u, err := app.Catalogs.Users.CompleteTraining(ctx, args[0], args[1], scorePtr)
			if err != nil {
				return err
			}
			if err := app.persist(ctx, fmt.Sprintf("complete %s for %s", args[1], u.Name)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s completed %s\n", u.Name, args[1])
			return nil
		},
	}

	cmd.Flags().IntVar(&score, "score", 0, "Assessment score from 0 to 100")

	return cmd
}
