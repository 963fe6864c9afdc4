package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

func (a *App) getStatus() string {
	s := ""
	if a.session != nil && a.session.Username() != "" {
		s = a.session.Username() + " "
	}
	if m := a.mode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root starts the background parts (scheduler, connectivity watcher) and
// blocks in the REPL until the user exits.
func (a *App) Root(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.println("Welcome to BudgetBuddy (type 'help' for commands)")

	if a.sched != nil {
		a.sched.Start(ctx)
		a.log.Debug(ctx, "scheduler started", "next_runs", a.sched.Next())
	}

	if a.mode() != ModeLocal {
		if a.isLoggedIn() {
			a.setMode(ModeOnline)
		}
		go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}
