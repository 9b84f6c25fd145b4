package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/accredit/internal/cli/formatter"
	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/spf13/cobra"
)

var errAssistDisabled = errors.New("assist is disabled; set ACCREDIT_LLM_ENABLED=true or llm.enabled in the config file")

func newAssistCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assist",
		Short: "Draft action plans, translations and summaries with the local model",
	}

	cmd.AddCommand(
		newAssistSuggestCmd(app),
		newAssistTranslateCmd(app),
		newAssistSummarizeCmd(app),
	)

	return cmd
}

// withSpinner runs fn behind a spinner on stderr when attached to a terminal.
func withSpinner(cmd *cobra.Command, app *App, msg string, fn func() error) error {
	if app.interactive() {
		stop := formatter.StartSpinner(cmd.ErrOrStderr(), msg)
		defer stop()
	}
	return fn()
}

func newAssistSuggestCmd(app *App) *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "suggest PROJECT ITEM",
		Short: "Suggest an action plan for a checklist item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Assist == nil {
				return errAssistDisabled
			}
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			item, err := app.Checklist.GetItem(ctx, projectID, args[1])
			if err != nil {
				return err
			}
			standards, err := app.Catalogs.Standards.List(ctx)
			if err != nil {
				return err
			}

			var plan string
			err = withSpinner(cmd, app, "Drafting action plan", func() error {
				var err error
				plan, err = app.Assist.SuggestActionPlan(ctx, *item, findStandard(standards, item.ID))
				return err
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSuggestion(item.ID, plan))
			if !apply {
				return nil
			}
			if _, err := runItemUpdate(cmd, app, projectID, item.ID, domain.SetActionPlan{Text: plan}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved as the action plan of %s\n", item.ID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Store the suggestion as the item's action plan")

	return cmd
}

func newAssistTranslateCmd(app *App) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "translate TEXT...",
		Short: "Translate text into another language",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Assist == nil {
				return errAssistDisabled
			}
			var out string
			err := withSpinner(cmd, app, "Translating", func() error {
				var err error
				out, err = app.Assist.Translate(cmd.Context(), strings.Join(args, " "), target)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "to", "", "Target language tag (e.g. ar, fr)")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func newAssistSummarizeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summarize PROJECT",
		Short: "Summarize a project's readiness",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Assist == nil {
				return errAssistDisabled
			}
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.GetByID(ctx, projectID)
			if err != nil {
				return err
			}
			summary, err := app.Assist.SummarizeProject(ctx, p)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSummary(p.Name, summary))
			return nil
		},
	}
}
