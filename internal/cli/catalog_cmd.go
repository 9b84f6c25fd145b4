package cli

import (
	"fmt"

	"github.com/alexanderramin/accredit/internal/cli/formatter"
	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/spf13/cobra"
)

func newCatalogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse programs, standards, risks, documents and settings",
	}

	cmd.AddCommand(
		newCatalogProgramsCmd(app),
		newCatalogStandardsCmd(app),
		newCatalogRisksCmd(app),
		newCatalogRiskAddCmd(app),
		newCatalogDocumentsCmd(app),
		newCatalogSettingsCmd(app),
	)

	return cmd
}

func newCatalogProgramsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "programs",
		Short: "List accreditation programs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			programs, err := app.Catalogs.Programs.List(ctx)
			if err != nil {
				return err
			}
			standards, err := app.Catalogs.Standards.List(ctx)
			if err != nil {
				return err
			}
			counts := map[string]int{}
			for _, s := range standards {
				counts[s.ProgramID]++
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPrograms(programs, counts))
			return nil
		},
	}
}

func newCatalogStandardsCmd(app *App) *cobra.Command {
	var programID string

	cmd := &cobra.Command{
		Use:   "standards",
		Short: "List standards and their sub-standards",
		RunE: func(cmd *cobra.Command, args []string) error {
			standards, err := app.Catalogs.Standards.List(cmd.Context())
			if err != nil {
				return err
			}
			if programID != "" {
				if _, err := app.Catalogs.Programs.Get(cmd.Context(), programID); err != nil {
					return err
				}
				filtered := standards[:0]
				for _, s := range standards {
					if s.ProgramID == programID {
						filtered = append(filtered, s)
					}
				}
				standards = filtered
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStandards(standards))
			return nil
		},
	}

	cmd.Flags().StringVar(&programID, "program", "", "Only standards of this program")

	return cmd
}

func newCatalogRisksCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "risks",
		Short: "Show the risk register",
		RunE: func(cmd *cobra.Command, args []string) error {
			risks, err := app.Catalogs.Risks.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRisks(risks))
			return nil
		},
	}
}

func newCatalogRiskAddCmd(app *App) *cobra.Command {
	var title, description, owner, project, mitigation string
	var likelihood, impact int

	cmd := &cobra.Command{
		Use:   "risk-add",
		Short: "Add a risk to the register",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r := &domain.Risk{
				Title:           title,
				Description:     description,
				Likelihood:      likelihood,
				Impact:          impact,
				Status:          domain.RiskOpen,
				OwnerID:         optionalID(owner),
				MitigationPlan:  mitigation,
				IdentifiedAt:    app.now(),
				LinkedProjectID: optionalID(project),
			}
			if err := app.Catalogs.Risks.Add(ctx, r); err != nil {
				return err
			}
			if err := app.persist(ctx, "risk add "+r.Title); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added risk %q (score %d, %s)\n", r.Title, r.Score(), r.Level())
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Risk title")
	cmd.Flags().StringVar(&description, "description", "", "Risk description")
	cmd.Flags().IntVar(&likelihood, "likelihood", 0, "Likelihood from 1 to 5")
	cmd.Flags().IntVar(&impact, "impact", 0, "Impact from 1 to 5")
	cmd.Flags().StringVar(&owner, "owner", "", "Owner user ID")
	cmd.Flags().StringVar(&project, "project", "", "Linked project ID")
	cmd.Flags().StringVar(&mitigation, "mitigation", "", "Mitigation plan")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newCatalogDocumentsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "documents",
		Short: "List policies and evidence documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := app.Catalogs.Documents.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDocuments(docs))
			return nil
		},
	}
}

func newCatalogSettingsCmd(app *App) *cobra.Command {
	var appName, color, language string

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change application settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := app.Catalogs.Settings.Get(ctx)
			if err != nil {
				return err
			}
			changed := false
			if cmd.Flags().Changed("app-name") {
				s.AppName, changed = appName, true
			}
			if cmd.Flags().Changed("color") {
				s.PrimaryColor, changed = color, true
			}
			if cmd.Flags().Changed("language") {
				s.DefaultLanguage, changed = language, true
			}
			if changed {
				if err := app.Catalogs.Settings.Update(ctx, s); err != nil {
					return err
				}
				if err := app.persist(ctx, "settings update"); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "App name:  %s\nColor:     %s\nLanguage:  %s\n", s.AppName, s.PrimaryColor, s.DefaultLanguage)
			return nil
		},
	}

	cmd.Flags().StringVar(&appName, "app-name", "", "Application name")
	cmd.Flags().StringVar(&color, "color", "", "Primary color")
	cmd.Flags().StringVar(&language, "language", "", "Default language code")

	return cmd
}
