package cli

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/accredit/internal/cli/formatter"
	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/spf13/cobra"
)

func newChecklistCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "checklist",
		Aliases: []string{"cl"},
		Short:   "Track compliance of checklist items",
	}

	cmd.AddCommand(
		newChecklistListCmd(app),
		newChecklistShowCmd(app),
		newChecklistProgressCmd(app),
		newChecklistUpdateCmd(app),
		newChecklistSetStatusCmd(app),
		newChecklistAssignCmd(app),
		newChecklistActionPlanCmd(app),
		newChecklistDueCmd(app),
		newChecklistNotesCmd(app),
		newChecklistLinkCmd(app),
		newChecklistCommentCmd(app),
		newChecklistAttachCmd(app),
	)

	return cmd
}

func newChecklistListCmd(app *App) *cobra.Command {
	var status complianceFlag

	cmd := &cobra.Command{
		Use:   "list PROJECT",
		Short: "List checklist items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			items, err := app.Checklist.List(ctx, projectID)
			if err != nil {
				return err
			}
			if status.set {
				filtered := items[:0]
				for _, item := range items {
					if item.Status == status.value {
						filtered = append(filtered, item)
					}
				}
				items = filtered
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No checklist items match.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatChecklist(items, userNames(ctx, app), app.now()))
			return nil
		},
	}

	cmd.Flags().Var(&status, "status", "Only items with this status (c|pc|nc|na)")

	return cmd
}

func newChecklistShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show PROJECT ITEM",
		Short: "Show one checklist item with its comments",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			item, err := app.Checklist.GetItem(ctx, projectID, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatItemDetail(item, userNames(ctx, app), app.now()))
			return nil
		},
	}
}

func newChecklistProgressCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "progress PROJECT",
		Short: "Show the compliance breakdown of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			b, err := app.Checklist.Progress(ctx, projectID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n%d compliant, %d partial, %d non-compliant, %d not applicable (%d of %d counted)\n",
				formatter.RenderProgress(b.Percent, 20),
				b.Compliant, b.PartiallyCompliant, b.NonCompliant, b.NotApplicable, b.Applicable(), b.Total)
			return nil
		},
	}
}

// runItemUpdate applies cmds to one item atomically and persists the result.
func runItemUpdate(cmd *cobra.Command, app *App, projectArg, itemID string, updates ...domain.ChecklistUpdate) (*domain.ChecklistItem, error) {
	ctx := cmd.Context()
	projectID, err := resolveProjectID(ctx, app, projectArg)
	if err != nil {
		return nil, err
	}
	item, err := app.Checklist.UpdateItem(ctx, projectID, itemID, updates...)
	if err != nil {
		return nil, err
	}
	if err := app.persist(ctx, fmt.Sprintf("checklist %s %s", cmd.Name(), itemID)); err != nil {
		return nil, err
	}
	return item, nil
}

func newChecklistUpdateCmd(app *App) *cobra.Command {
	var status complianceFlag
	var assignee, actionPlan, due, notes string

	cmd := &cobra.Command{
		Use:   "update PROJECT ITEM",
		Short: "Change several fields of an item in one step",
		Long:  "Change several fields of an item in one step. Either every change applies or none does.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var updates []domain.ChecklistUpdate
			if status.set {
				updates = append(updates, domain.SetStatus{Status: status.value})
			}
			if cmd.Flags().Changed("assignee") {
				updates = append(updates, domain.SetAssignee{UserID: optionalID(assignee)})
			}
			if cmd.Flags().Changed("action-plan") {
				updates = append(updates, domain.SetActionPlan{Text: actionPlan})
			}
			if cmd.Flags().Changed("due") {
				d, err := parseOptionalDate("due", due)
				if err != nil {
					return err
				}
				updates = append(updates, domain.SetDueDate{Date: d})
			}
			if cmd.Flags().Changed("notes") {
				updates = append(updates, domain.SetNotes{Text: notes})
			}
			if len(updates) == 0 {
				return fmt.Errorf("nothing to update; pass at least one flag")
			}

			item, err := runItemUpdate(cmd, app, args[0], args[1], updates...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%d changes)\n", item.ID, len(updates))
			return nil
		},
	}

	cmd.Flags().Var(&status, "status", "Compliance status (c|pc|nc|na)")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Assignee user ID, or none")
	cmd.Flags().StringVar(&actionPlan, "action-plan", "", "Action plan text")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD), or none")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes text")

	return cmd
}

func newChecklistSetStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status PROJECT ITEM STATUS",
		Short: "Set the compliance status of an item (c|pc|nc|na)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := domain.ParseComplianceStatus(args[2])
			if err != nil {
				return err
			}
			item, err := runItemUpdate(cmd, app, args[0], args[1], domain.SetStatus{Status: st})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", item.ID, item.Status)
			return nil
		},
	}
}

func newChecklistAssignCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "assign PROJECT ITEM USER",
		Short: "Assign an item to a user, or to none",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := optionalID(args[2])
			item, err := runItemUpdate(cmd, app, args[0], args[1], domain.SetAssignee{UserID: userID})
			if err != nil {
				return err
			}
			if userID == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now unassigned\n", item.ID)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Assigned %s to %s\n", item.ID, *userID)
			return nil
		},
	}
}

func newChecklistActionPlanCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "action-plan PROJECT ITEM TEXT...",
		Short: "Replace the action plan of an item",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args[2:], " ")
			item, err := runItemUpdate(cmd, app, args[0], args[1], domain.SetActionPlan{Text: text})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated action plan for %s\n", item.ID)
			return nil
		},
	}
}

func newChecklistDueCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "due PROJECT ITEM DATE",
		Short: "Set an item's due date (YYYY-MM-DD), or none",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseOptionalDate("due", args[2])
			if err != nil {
				return err
			}
			item, err := runItemUpdate(cmd, app, args[0], args[1], domain.SetDueDate{Date: d})
			if err != nil {
				return err
			}
			if d == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared due date of %s\n", item.ID)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is due %s\n", item.ID, d.Format(dateLayout))
			return nil
		},
	}
}

func newChecklistNotesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "notes PROJECT ITEM TEXT...",
		Short: "Replace the notes of an item",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := runItemUpdate(cmd, app, args[0], args[1], domain.SetNotes{Text: strings.Join(args[2:], " ")})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated notes for %s\n", item.ID)
			return nil
		},
	}
}

func newChecklistLinkCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "link PROJECT ITEM [RESOURCE...]",
		Short: "Replace the resources linked to an item; no resources clears them",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := runItemUpdate(cmd, app, args[0], args[1], domain.LinkResources{IDs: args[2:]})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s links %d resources\n", item.ID, len(item.LinkedResourceIDs))
			return nil
		},
	}
}

func newChecklistCommentCmd(app *App) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "comment PROJECT ITEM TEXT...",
		Short: "Add a comment to an item",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			author := domain.Author{UserID: userID}
			if userID != "" {
				u, err := app.Catalogs.Users.Get(ctx, userID)
				if err != nil {
					return err
				}
				author.Name = u.Name
			}
			c, err := app.Checklist.AddComment(ctx, projectID, args[1], strings.Join(args[2:], " "), author)
			if err != nil {
				return err
			}
			if err := app.persist(ctx, "checklist comment "+args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Comment added by %s\n", c.UserName)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "Author user ID (defaults to --as)")

	return cmd
}

func newChecklistAttachCmd(app *App) *cobra.Command {
	var fileType string

	cmd := &cobra.Command{
		Use:   "attach PROJECT ITEM FILE",
		Short: "Record a file as evidence for an item",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			file, err := describeFile(args[2], fileType)
			if err != nil {
				return err
			}
			doc, err := app.Checklist.AttachEvidence(ctx, projectID, args[1], file)
			if err != nil {
				return err
			}
			if err := app.persist(ctx, "checklist attach "+args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Attached %s to %s as document %s\n", doc.Name, args[1], doc.ID[:min(8, len(doc.ID))])
			return nil
		},
	}

	cmd.Flags().StringVar(&fileType, "type", "", "Document type (defaults to the file's MIME type)")

	return cmd
}

// describeFile reads the name, size and MIME type of an evidence file. The
// file content itself is not stored.
func describeFile(path, fileType string) (domain.FileDescriptor, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.FileDescriptor{}, fmt.Errorf("reading evidence file: %w", err)
	}
	if info.IsDir() {
		return domain.FileDescriptor{}, domain.NewValidation("file", "%s is a directory", path)
	}
	if fileType == "" {
		fileType = mime.TypeByExtension(filepath.Ext(path))
	}
	return domain.FileDescriptor{
		Name: filepath.Base(path),
		Type: fileType,
		Size: info.Size(),
	}, nil
}
