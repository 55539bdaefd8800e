package cli

import (
	"context"
	"errors"

	"github.com/alexanderramin/estimator/internal/store"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the full-screen interface",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), app)
		},
	}
}

// runTUI runs the full-screen program until the user quits or ctx ends.
func runTUI(ctx context.Context, app *App) error {
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(newAppModel(app), tea.WithAltScreen(), tea.WithContext(ctx))

	if app.Toasts != nil {
		detach := app.Toasts.Attach(p.Send)
		defer detach()
	}

	// Send blocks until the event loop reads the message, and writes can
	// happen inside Update, so deliver from a separate goroutine.
	unsubscribe := app.Store.Subscribe(func(next, prev store.State) {
		go p.Send(storeChangedMsg{})
	})
	defer unsubscribe()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
