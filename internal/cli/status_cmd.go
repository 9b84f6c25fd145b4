package cli

import (
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/accredit/internal/app"
	"github.com/alexanderramin/accredit/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStatusCmd(a *App) *cobra.Command {
	var projects []string
	var dueWithin int
	var excludeFinalized, asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show readiness across projects with overdue items",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			req := app.NewStatusRequest()
			for _, p := range projects {
				id, err := resolveProjectID(ctx, a, p)
				if err != nil {
					return err
				}
				req.ProjectScope = append(req.ProjectScope, id)
			}
			req.DueWithinDays = dueWithin
			req.IncludeFinalized = !excludeFinalized
			if a.Now != nil {
				now := a.Now()
				req.Now = &now
			}

			resp, err := a.Status.GetStatus(ctx, req)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatStatus(resp))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&projects, "project", nil, "Scope to these projects (repeatable)")
	cmd.Flags().IntVar(&dueWithin, "due-within", 0, "Also list items due within this many days")
	cmd.Flags().BoolVar(&excludeFinalized, "exclude-finalized", false, "Hide signed-off projects")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")

	return cmd
}
