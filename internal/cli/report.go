package cli

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dm/esaudit-go/internal/config"
	"github.com/dm/esaudit-go/internal/logging"
	"github.com/dm/esaudit-go/internal/report"
)

var reportHTMLPath string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "One-shot audit report",
	Long: `Observe the cluster twice, one poll interval apart, run the full audit over
the pair and print the findings, causality chains, shard distribution and
node load table to stdout. With --html the same report is also written as a
standalone HTML page with charts.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		logging.Setup(cfg)

		store, err := buildStore(cmd.Context(), cfg, nil, false)
		if err != nil {
			return err
		}

		rep, err := report.Collect(cmd.Context(), store, cfg.PollInterval, cfg.Thresholds)
		if err != nil {
			return err
		}

		if err := rep.WriteText(os.Stdout); err != nil {
			return err
		}
		if reportHTMLPath != "" {
			if err := rep.WriteHTML(reportHTMLPath); err != nil {
				return err
			}
			logrus.WithField("path", reportHTMLPath).Info("html report written")
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportHTMLPath, "html", "",
		"Also write the report as a standalone HTML page to this path.")
}
