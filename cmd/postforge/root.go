package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/postforge/internal/app"
	"github.com/dshills/postforge/internal/config"
	"github.com/dshills/postforge/internal/store"
)

// errQuit ends the editor normally.
var errQuit = errors.New("quit")

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	logLevel   string
	ephemeral  bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   config.AppName,
		Short: "Style social media posts from the terminal",
		Long: `postforge edits a styled social media post with undo and redo,
saves the session automatically, keeps named style presets and
exports the result as a PNG.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.logLevel {
			case "", "debug", "info", "warn", "error":
				return nil
			}
			return fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.logLevel)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to configuration file (default "+config.DefaultPath()+")")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.BoolVar(&opts.ephemeral, "ephemeral", false, "keep sessions and presets in memory only")

	root.AddCommand(
		newEditCmd(opts),
		newTemplatesCmd(),
		newPresetsCmd(opts),
		newSessionCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return root
}

// env is what a command needs from the configuration: the config, a
// logger and an open store.
type env struct {
	cfg    *config.Config
	logger *app.Logger
	store  store.Store
}

// loadConfig applies the flags on top of the loaded configuration.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	o.override(cfg)
	return cfg, nil
}

func (o *globalOptions) override(cfg *config.Config) {
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.ephemeral {
		cfg.Store.Backend = config.BackendMemory
		cfg.Store.Path = ""
	}
}

// open loads the configuration and opens the store. Call env.close when done.
func (o *globalOptions) open(logOut io.Writer) (*env, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	lcfg := app.LoggerConfigFrom(cfg.Logging)
	lcfg.Output = logOut
	lcfg.App = config.AppName
	logger := app.NewLogger(lcfg)

	s, err := app.OpenStore(cfg.Store, o.ephemeral, logger.WithComponent("store"))
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: logger, store: s}, nil
}

func (e *env) close() {
	if err := e.store.Close(); err != nil {
		e.logger.Warn("closing store", "error", err)
	}
}
