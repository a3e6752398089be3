package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/postforge/internal/persist"
	"github.com/dshills/postforge/internal/prompt"
)

func newSessionCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or discard the autosaved session",
	}
	cmd.AddCommand(newSessionShowCmd(opts), newSessionClearCmd(opts))
	return cmd
}

// withBridge opens the store and a bridge over the autosave slot.
func withBridge(cmd *cobra.Command, opts *globalOptions, fn func(*persist.Bridge) error) error {
	e, err := opts.open(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.close()

	b := persist.NewBridge(e.store, nil, prompt.AutoDecline(),
		e.logger.WithComponent("persist"), persist.WithKey(e.cfg.Autosave.Key))
	return fn(b)
}

func newSessionShowCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the autosaved session without restoring it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBridge(cmd, opts, func(b *persist.Bridge) error {
				saved, found, err := b.Peek(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !found {
					fmt.Fprintln(out, mutedStyle.Render("no saved session"))
					return nil
				}
				field(out, "saved", saved.SavedAt.Local().Format("2006-01-02 15:04:05"))
				field(out, "session", saved.Session)
				printState(out, saved.State)
				return nil
			})
		},
	}
}

func newSessionClearCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Discard the autosaved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBridge(cmd, opts, func(b *persist.Bridge) error {
				if err := b.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("Saved session cleared."))
				return nil
			})
		},
	}
}
