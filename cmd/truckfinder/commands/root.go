package commands

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/truckfinder/internal/config"
	"github.com/jask/truckfinder/internal/flow"
	"github.com/jask/truckfinder/internal/tui"
)

var (
	configPath string
	latency    time.Duration
	appSession *session
)

func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "truckfinder",
		Short:        "Book a truck for your delivery",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			appSession, err = openSession(cmd.Context(), cfg)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if appSession == nil {
				return nil
			}
			return appSession.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), appSession)
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/truckfinder/config.toml)")
	root.Flags().DurationVar(&latency, "latency", time.Second, "simulated backend latency unit")

	root.AddCommand(ordersCmd(), themeCmd(), resetCmd(), configCmd())
	return root
}

// applyConfigFlag makes --config the location config.Load and config.Path see.
func applyConfigFlag() error {
	if configPath == "" {
		return nil
	}
	return os.Setenv("TRUCKFINDER_CONFIG", configPath)
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if err := applyConfigFlag(); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("config: %w", err)
	}
	if f := cmd.Flags().Lookup("latency"); f != nil && f.Changed {
		cfg.Flow.LatencyUnit = latency
	}
	return cfg, nil
}

func runTUI(ctx context.Context, s *session) error {
	restore, err := redirectLog()
	if err != nil {
		return err
	}
	defer restore()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c := flow.New(s.store, flow.SimulatedBackend{Unit: s.cfg.Flow.LatencyUnit})
	m := tui.New(ctx, s.store, c, tui.WithCountryCode(s.cfg.UI.CountryCode))
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// redirectLog moves the standard logger off the terminal, which belongs to
// the UI while it runs. TRUCKFINDER_DEBUG sends it to truckfinder-debug.log.
func redirectLog() (restore func(), err error) {
	if os.Getenv("TRUCKFINDER_DEBUG") == "" {
		log.SetOutput(io.Discard)
		return func() { log.SetOutput(os.Stderr) }, nil
	}
	f, err := tea.LogToFile("truckfinder-debug.log", "debug")
	if err != nil {
		return nil, fmt.Errorf("open debug log: %w", err)
	}
	return func() {
		log.SetOutput(os.Stderr)
		log.SetPrefix("")
		f.Close()
	}, nil
}
