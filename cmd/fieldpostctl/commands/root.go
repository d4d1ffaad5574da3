package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jask/fieldpost/internal/config"
	"github.com/jask/fieldpost/internal/intake"
)

var (
	configPath string
	endpoint   string

	cfg    config.Config
	client *intake.Client
)

func Execute() error {
	root := &cobra.Command{
		Use:           "fieldpostctl",
		Short:         "Submit and read dispatch updates from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				if err := os.Setenv("FIELDPOST_CONFIG", configPath); err != nil {
					return err
				}
			}
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			if endpoint == "" {
				endpoint = cfg.Intake.Endpoint
			}
			client = intake.NewClient(endpoint, cfg.Intake.Timeout())
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/fieldpost/config.toml)")
	root.PersistentFlags().StringVar(&endpoint, "endpoint", "", "intake base URL (default from config)")

	root.AddCommand(sendCmd(), officersCmd(), callsCmd(), tailCmd())
	return root.Execute()
}
