package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alexanderramin/accredit/internal/assist"
	"github.com/alexanderramin/accredit/internal/domain"
	"github.com/alexanderramin/accredit/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services used by CLI commands.
type App struct {
	*service.Services

	// Assist is nil when the LLM integration is disabled.
	Assist assist.Service

	// Actor is the default name recorded in activity logs; --as overrides it.
	Actor string
	// Addr is the default listen address for serve.
	Addr   string
	Logger *slog.Logger

	IsInteractive func() bool
	Now           func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// persist snapshots the dataset after a mutating command. It is a no-op when
// no snapshot database is configured.
func (a *App) persist(ctx context.Context, reason string) error {
	if a.Data == nil {
		return nil
	}
	if _, _, err := a.Data.Persist(ctx, reason); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// NewRootCmd creates the top-level "accredit" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var actor string

	root := &cobra.Command{
		Use:           "accredit",
		Short:         "Accreditation compliance tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(actor)
			if name == "" {
				name = app.Actor
			}
			if name != "" {
				cmd.SetContext(domain.WithActor(cmd.Context(), name))
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&actor, "as", "", "Name recorded in activity logs and snapshots")

	root.AddCommand(
		newProjectCmd(app),
		newChecklistCmd(app),
		newCatalogCmd(app),
		newUsersCmd(app),
		newStatusCmd(app),
		newDataCmd(app),
		newSnapshotCmd(app),
		newAssistCmd(app),
		newServeCmd(app),
		newDashboardCmd(app),
	)

	return root
}
