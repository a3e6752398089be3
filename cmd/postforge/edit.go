package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/postforge/internal/app"
	"github.com/dshills/postforge/internal/config"
	"github.com/dshills/postforge/internal/prompt"
)

// closeTimeout bounds the final save on exit.
const closeTimeout = 5 * time.Second

func newEditCmd(opts *globalOptions) *cobra.Command {
	var (
		noRestore bool
		noWatch   bool
	)
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Open the interactive editor",
		Long: `Open the line-based post editor. Every command that changes the post
is one undo step. Changes are saved automatically after a short pause
and the previous session is offered for restore on start.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd.Context(), opts, editOptions{
				restore: !noRestore,
				watch:   !noWatch,
				in:      cmd.InOrStdin(),
				out:     cmd.OutOrStdout(),
				logOut:  cmd.ErrOrStderr(),
			})
		},
	}
	cmd.Flags().BoolVar(&noRestore, "no-restore", false, "discard any saved session without asking")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload the config file when it changes")
	return cmd
}

type editOptions struct {
	restore bool
	watch   bool
	in      io.Reader
	out     io.Writer
	logOut  io.Writer
}

func runEdit(ctx context.Context, opts *globalOptions, eo editOptions) error {
	e, err := opts.open(eo.logOut)
	if err != nil {
		return err
	}
	defer e.close()
	log := e.logger.WithComponent("cli")

	confirm := &handoff{}
	if eo.restore {
		confirm.use(prompt.NewTerminal(
			prompt.WithAccessible(e.cfg.Prompt.Accessible || !isTerminal(eo.in)),
			prompt.WithIO(eo.in, eo.out),
		))
	} else {
		confirm.use(prompt.AutoDecline())
	}

	session, err := app.NewSession(e.cfg, app.Deps{
		Store:     e.store,
		Confirmer: confirm,
		Logger:    e.logger,
		OnExportBusy: func(busy bool) {
			log.Debug("export busy", "busy", busy)
		},
	})
	if err != nil {
		return err
	}
	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := session.Close(cctx); err != nil {
			fmt.Fprintln(eo.out, renderError(err))
		}
	}()

	restored, err := session.Start(ctx)
	if err != nil {
		return err
	}
	if restored {
		fmt.Fprintln(eo.out, okStyle.Render("Session restored."))
	}

	if eo.watch {
		if w := watchConfig(opts, session, log); w != nil {
			defer w.Close()
		}
	}

	r := newREPL(session, eo.in, eo.out)
	confirm.use(&lineConfirmer{r: r})
	fmt.Fprintln(eo.out, mutedStyle.Render("Type help for commands."))
	return r.Run(ctx)
}

// watchConfig reloads the config file into session while editing. It
// returns nil when the file's directory cannot be watched.
func watchConfig(opts *globalOptions, session *app.Session, log *slog.Logger) *config.Watcher {
	w, err := config.Watch(opts.configPath, func(cfg *config.Config, err error) {
		if err != nil {
			log.Warn("config reload failed", "error", err)
			return
		}
		opts.override(cfg)
		if err := session.ApplyConfig(cfg); err != nil {
			log.Warn("config rejected", "error", err)
			return
		}
		log.Info("config reloaded")
	})
	if err != nil {
		log.Debug("config watch disabled", "error", err)
		return nil
	}
	return w
}

// handoff forwards to the confirmer currently in use. The restore
// question is asked before the REPL owns the input.
type handoff struct {
	mu  sync.Mutex
	cur prompt.Confirmer
}

func (h *handoff) use(c prompt.Confirmer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cur = c
}

func (h *handoff) current() prompt.Confirmer {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cur
}

func (h *handoff) Confirm(message string) (bool, error) {
	return h.current().Confirm(message)
}

func (h *handoff) Prompt(message string) (string, bool, error) {
	return h.current().Prompt(message)
}

// lineConfirmer asks on the REPL's own input.
type lineConfirmer struct {
	r *repl
}

func (c *lineConfirmer) Confirm(message string) (bool, error) {
	fmt.Fprintf(c.r.out, "%s %s ", message, mutedStyle.Render("[y/N]"))
	line, ok := c.r.readLine()
	if !ok {
		return false, c.r.in.Err()
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func (c *lineConfirmer) Prompt(message string) (string, bool, error) {
	fmt.Fprintf(c.r.out, "%s ", message)
	line, ok := c.r.readLine()
	if !ok {
		return "", false, c.r.in.Err()
	}
	line = strings.TrimSpace(line)
	return line, line != "", nil
}

var (
	_ prompt.Confirmer = (*handoff)(nil)
	_ prompt.Confirmer = (*lineConfirmer)(nil)
)

// isTerminal reports whether r is an interactive terminal. Prompts fall
// back to huh's accessible mode on pipes.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
