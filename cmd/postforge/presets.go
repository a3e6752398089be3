package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/postforge/internal/post"
	"github.com/dshills/postforge/internal/preset"
	"github.com/dshills/postforge/internal/prompt"
)

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the built-in templates",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, t := range post.Templates() {
				fmt.Fprintf(out, "  %-20s %s%s\n", t.Name,
					swatch(t.Style.TextColor), mutedStyle.Render(t.Style.FontFamily))
			}
		},
	}
}

func newPresetsCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Manage saved style presets",
	}
	cmd.AddCommand(
		newPresetsListCmd(opts),
		newPresetsDeleteCmd(opts),
		newPresetsExportCmd(opts),
		newPresetsImportCmd(opts),
	)
	return cmd
}

// withPresets opens the store and loads the preset list.
func withPresets(cmd *cobra.Command, opts *globalOptions, fn func(*env, *preset.Manager) error) error {
	e, err := opts.open(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.close()

	m := preset.NewManager(e.store, e.logger.WithComponent("preset"), preset.WithKey(e.cfg.Presets.Key))
	if err := m.Load(cmd.Context()); err != nil {
		return err
	}
	return fn(e, m)
}

func newPresetsListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPresets(cmd, opts, func(_ *env, m *preset.Manager) error {
				out := cmd.OutOrStdout()
				if m.Len() == 0 {
					fmt.Fprintln(out, mutedStyle.Render("no presets"))
					return nil
				}
				for _, p := range m.List() {
					fmt.Fprintf(out, "  %-24s %s%s\n", p.Name,
						swatch(p.State.Style.Background), mutedStyle.Render(p.State.Style.FontFamily))
				}
				return nil
			})
		},
	}
}

func newPresetsDeleteCmd(opts *globalOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPresets(cmd, opts, func(e *env, m *preset.Manager) error {
				var confirm preset.Confirmer = prompt.NewTerminal(
					prompt.WithAccessible(e.cfg.Prompt.Accessible || !isTerminal(cmd.InOrStdin())),
					prompt.WithIO(cmd.InOrStdin(), cmd.OutOrStdout()),
				)
				if yes {
					confirm = prompt.NewScripted(prompt.Yes())
				}
				ok, err := m.Delete(cmd.Context(), args[0], confirm)
				if err != nil {
					return err
				}
				if ok {
					fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("Preset deleted: "+args[0]))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newPresetsExportCmd(opts *globalOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write presets as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPresets(cmd, opts, func(_ *env, m *preset.Manager) error {
				if file == "" || file == "-" {
					return m.ExportYAML(cmd.OutOrStdout())
				}
				f, err := os.Create(file)
				if err != nil {
					return err
				}
				if err := m.ExportYAML(f); err != nil {
					_ = f.Close()
					return err
				}
				return f.Close()
			})
		},
	}
	cmd.Flags().StringVarP(&file, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newPresetsImportCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add presets from a YAML file",
		Long:  "Add presets from a YAML file. Presets whose names already exist are skipped.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPresets(cmd, opts, func(_ *env, m *preset.Manager) error {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()

				res, err := m.ImportYAML(cmd.Context(), f)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, name := range res.Added {
					fmt.Fprintf(out, "%s %s\n", okStyle.Render("added"), name)
				}
				for _, name := range res.Skipped {
					fmt.Fprintf(out, "%s %s\n", mutedStyle.Render("skipped"), name)
				}
				return nil
			})
		},
	}
}
