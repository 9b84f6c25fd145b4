package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/accredit/internal/cli/formatter"
	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage accreditation projects",
	}

	cmd.AddCommand(
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectCreateCmd(app),
		newProjectUpdateCmd(app),
		newProjectFinalizeCmd(app),
		newProjectDeleteCmd(app),
		newProjectCAPACmd(app),
	)

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects with their compliance progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projects, err := app.Projects.List(ctx)
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects, programNames(ctx, app)))
			return nil
		},
	}
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show PROJECT",
		Short: "Show project details, checklist tree and recent activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.GetByID(ctx, projectID)
			if err != nil {
				return err
			}
			data := formatter.ProjectDetailData{
				Project:   p,
				UserNames: userNames(ctx, app),
				Now:       app.now(),
			}
			if program, err := app.Catalogs.Programs.Get(ctx, p.ProgramID); err == nil {
				data.ProgramName = program.Name
			}
			if standards, err := app.Catalogs.Standards.List(ctx); err == nil {
				data.Standards = standards
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectDetail(data))
			return nil
		},
	}
}

func newProjectCreateCmd(app *App) *cobra.Command {
	var name, description, programID, start, end, lead string
	var interactive bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project with a checklist built from a program's standards",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if interactive {
				if !app.interactive() {
					return fmt.Errorf("--interactive requires a terminal")
				}
				if err := runProjectWizard(ctx, app, &name, &description, &programID, &start, &end, &lead); err != nil {
					return err
				}
			}
			if err := requireArg("name", name); err != nil {
				return err
			}
			if err := requireArg("program", programID); err != nil {
				return err
			}

			draft := domain.ProjectDraft{
				Name:        name,
				Description: description,
				ProjectLead: optionalID(lead),
			}
			if start != "" {
				t, err := parseDate("start", start)
				if err != nil {
					return err
				}
				draft.StartDate = t
			}
			endDate, err := parseOptionalDate("end", end)
			if err != nil {
				return err
			}
			draft.EndDate = endDate

			p, err := app.Projects.Create(ctx, draft, programID)
			if err != nil {
				return err
			}
			if err := app.persist(ctx, "project create "+p.Name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s [%s] with %d checklist items\n",
				p.Name, p.ID[:min(8, len(p.ID))], len(p.Checklist))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	cmd.Flags().StringVar(&programID, "program", "", "Accreditation program ID")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&end, "end", "", "Survey deadline (YYYY-MM-DD)")
	cmd.Flags().StringVar(&lead, "lead", "", "Project lead user ID")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Fill in the project with a form")

	return cmd
}

func newProjectUpdateCmd(app *App) *cobra.Command {
	var name, description, start, end, lead, status string
	var clearEnd, clearLead bool

	cmd := &cobra.Command{
		Use:   "update PROJECT",
		Short: "Update project header fields",
		Long: `Update project header fields. Only the flags given are changed.

The survey deadline and the project lead are optional: remove them with
--clear-end and --clear-lead.`,
		Example: `  accredit project update proj-jci-2026 --end 2026-11-30
  accredit project update proj-jci-2026 --clear-lead`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}

			var details domain.ProjectDetails
			if cmd.Flags().Changed("name") {
				details.Name = &name
			}
			if cmd.Flags().Changed("description") {
				details.Description = &description
			}
			if cmd.Flags().Changed("start") {
				t, err := parseDate("start", start)
				if err != nil {
					return err
				}
				details.StartDate = &t
			}
			if cmd.Flags().Changed("end") {
				t, err := parseDate("end", end)
				if err != nil {
					return err
				}
				details.EndDate = &t
			}
			if cmd.Flags().Changed("lead") {
				details.ProjectLead = &lead
			}
			details.ClearEndDate = clearEnd
			details.ClearProjectLead = clearLead
			if cmd.Flags().Changed("status") {
				st, err := parseProjectStatus(status)
				if err != nil {
					return err
				}
				details.Status = &st
			}

			p, err := app.Projects.UpdateDetails(ctx, projectID, details)
			if err != nil {
				return err
			}
			if err := app.persist(ctx, "project update "+p.Name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s\n", p.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Survey deadline (YYYY-MM-DD)")
	cmd.Flags().StringVar(&lead, "lead", "", "Project lead user ID")
	cmd.Flags().StringVar(&status, "status", "", "Project status (not-started|in-progress|completed)")
	cmd.Flags().BoolVar(&clearEnd, "clear-end", false, "Remove the survey deadline")
	cmd.Flags().BoolVar(&clearLead, "clear-lead", false, "Remove the project lead")
	cmd.MarkFlagsMutuallyExclusive("end", "clear-end")
	cmd.MarkFlagsMutuallyExclusive("lead", "clear-lead")

	return cmd
}

func parseProjectStatus(s string) (domain.ProjectStatus, error) {
	switch strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)) {
	case "notstarted":
		return domain.ProjectNotStarted, nil
	case "inprogress":
		return domain.ProjectInProgress, nil
	case "completed":
		return domain.ProjectCompleted, nil
	case "finalized":
		return domain.ProjectFinalized, nil
	}
	return "", domain.NewValidation("status", "unknown project status %q", s)
}

func newProjectFinalizeCmd(app *App) *cobra.Command {
	var signer string
	var yes bool

	cmd := &cobra.Command{
		Use:   "finalize PROJECT",
		Short: "Sign a project off",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if signer == "" {
				signer = domain.ActorFrom(ctx)
			}
			if !yes {
				if err := confirmAction(cmd, app, fmt.Sprintf("Sign off %s as %s?", projectID, signer)); err != nil {
					return err
				}
			}
			p, err := app.Projects.Finalize(ctx, projectID, signer)
			if err != nil {
				return err
			}
			if err := app.persist(ctx, "project finalize "+p.Name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Finalized %s at %.1f%%, signed by %s\n", p.Name, p.Progress(), *p.FinalizedBy)
			return nil
		},
	}

	cmd.Flags().StringVar(&signer, "signer", "", "Name of the signer (defaults to --as)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func newProjectDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete PROJECT",
		Short: "Delete a project with its checklist and history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if !yes {
				if err := confirmAction(cmd, app, fmt.Sprintf("Delete %s and its checklist?", projectID)); err != nil {
					return err
				}
			}
			if err := app.Projects.Delete(ctx, projectID); err != nil {
				return err
			}
			if err := app.persist(ctx, "project delete "+projectID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", projectID)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func newProjectCAPACmd(app *App) *cobra.Command {
	var title, description, rootCause, actionPlan, item, assignee, due string

	cmd := &cobra.Command{
		Use:   "capa PROJECT",
		Short: "Raise a corrective and preventive action",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			dueDate, err := parseOptionalDate("due", due)
			if err != nil {
				return err
			}
			report, err := app.Projects.AddCAPAReport(ctx, projectID, domain.CAPAReport{
				Title:                 title,
				Description:           description,
				RootCause:             rootCause,
				ActionPlan:            actionPlan,
				AssignedTo:            optionalID(assignee),
				DueDate:               dueDate,
				SourceChecklistItemID: item,
			})
			if err != nil {
				return err
			}
			if err := app.persist(ctx, "capa "+report.Title); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Raised CAPA %q\n", report.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "CAPA title")
	cmd.Flags().StringVar(&description, "description", "", "What went wrong")
	cmd.Flags().StringVar(&rootCause, "root-cause", "", "Root cause analysis")
	cmd.Flags().StringVar(&actionPlan, "action-plan", "", "Corrective action plan")
	cmd.Flags().StringVar(&item, "item", "", "Checklist item the CAPA came from")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Responsible user ID")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}
