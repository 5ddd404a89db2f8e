package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dm/esaudit-go/internal/config"
	"github.com/dm/esaudit-go/internal/logging"
	"github.com/dm/esaudit-go/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Live terminal dashboard",
	Long: `Render the live dashboard: cluster overview, per-node and per-index tables,
findings, causality chains and shard distribution, refreshed every poll
interval. Periodic snapshots are written to the snapshot directory.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		// Never log to stderr here, it would corrupt the alternate screen.
		logging.SetupTUI(cfg)

		store, err := buildStore(cmd.Context(), cfg, nil, true)
		if err != nil {
			return err
		}

		app := tui.NewApp(store, cfg.ESURL, cfg.PollInterval, cfg.Thresholds)
		_, err = tea.NewProgram(app, tea.WithAltScreen()).Run()
		return err
	},
}
