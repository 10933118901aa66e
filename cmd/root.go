package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/dutyreg/internal/config"
	"github.com/sadopc/dutyreg/internal/duty"
	"github.com/sadopc/dutyreg/internal/register"
	"github.com/sadopc/dutyreg/internal/store"
	"github.com/sadopc/dutyreg/internal/tui"
)

// env carries what every subcommand needs once the root has run.
type env struct {
	cfgPath string
	cfg     *config.Config
	logFile *os.File
	now     func() time.Time
}

// Execute is the entry point called from main.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	e := &env{now: time.Now}

	root := &cobra.Command{
		Use:   "dutyreg",
		Short: "Railway duty register",
		Long: `dutyreg keeps a register of railway duty shifts. Each entry records
the train, route and sign-on/sign-off times; duty and night hours are
derived automatically and summed per month.

Run without a subcommand for the interactive register.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			e.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.runTUI()
		},
	}
	root.PersistentFlags().StringVar(&e.cfgPath, "config", "", "Config file (default $XDG_CONFIG_HOME/dutyreg/config.yaml)")

	root.AddCommand(
		newAddCmd(e),
		newListCmd(e),
		newRmCmd(e),
		newExportCmd(e),
		newPrintCmd(e),
		newServeCmd(e),
	)
	return root
}

// setup loads the config and sends the standard logger to the log file.
func (e *env) setup() error {
	cfg, err := config.Load(e.cfgPath)
	if err != nil {
		return err
	}
	e.cfg = cfg

	if cfg.Log.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
		f, err := tea.LogToFile(cfg.Log.File, "dutyreg")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		e.logFile = f
	}
	log.Printf("config %s", cfg.File)
	return nil
}

func (e *env) close() {
	if e.logFile != nil {
		log.SetOutput(os.Stderr)
		e.logFile.Close()
		e.logFile = nil
	}
}

// openRegister opens the configured storage backend and loads the register.
// The returned func releases the backend.
func (e *env) openRegister() (*register.Register, func() error, error) {
	path, err := e.cfg.StoragePath()
	if err != nil {
		return nil, nil, err
	}
	night, err := e.cfg.NightWindow()
	if err != nil {
		return nil, nil, err
	}

	var (
		kv      store.KV
		closeFn = func() error { return nil }
	)
	switch e.cfg.Storage.Backend {
	case config.BackendFile:
		f, err := store.NewFileKV(path)
		if err != nil {
			return nil, nil, err
		}
		kv = f
	default:
		s, err := store.New(path)
		if err != nil {
			return nil, nil, err
		}
		kv, closeFn = s, s.Close
	}

	reg, err := register.Open(store.NewSlot(kv, e.cfg.Storage.Key), register.WithNightWindow(night))
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return reg, closeFn, nil
}

// month reads a --month value, defaulting to the current month.
func (e *env) month(s string) (duty.Month, error) {
	if s == "" {
		return duty.CurrentMonth(e.now()), nil
	}
	m, err := duty.ParseMonth(s)
	if err != nil {
		return duty.Month{}, fmt.Errorf("--month %q: want YYYY-MM", s)
	}
	return m, nil
}

func (e *env) runTUI() error {
	reg, closeFn, err := e.openRegister()
	if err != nil {
		return err
	}
	defer closeFn()

	p := tea.NewProgram(tui.NewApp(reg, e.cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// warn prints a load warning to stderr for the non-interactive commands.
func warn(cmd *cobra.Command, reg *register.Register) {
	if w := reg.Warning(); w != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
	}
}
