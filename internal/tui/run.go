package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/pressdesk/internal/session"
)

// Run starts the dashboard and blocks until the user quits or ctx is cancelled.
// Session changes are forwarded to the program. Send blocks until the update
// loop takes the message, which keeps them in order; the model only changes
// the session from commands, never from Update.
func Run(ctx context.Context, sess Session, svc AgentService, opts Options) error {
	m := NewModel(ctx, sess, svc, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	unsubscribe := sess.Subscribe(func(s session.State) {
		p.Send(stateMsg{state: s})
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}
