package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storefront/internal/kv"
)

func newInitCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration and data directories",
		Long: "Create the configuration, data and seed directories, write a default\n" +
			"config.yaml when none exists, and open the configured backend once.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, f)
		},
	}
}

func runInit(cmd *cobra.Command, f *rootFlags) error {
	s, err := loadSettings(f)
	if err != nil {
		return sysError(err)
	}
	for _, dir := range []string{s.Dirs.Config, s.Dirs.Data, s.Dirs.Seed} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return sysError(fmt.Errorf("create directory %s: %w", dir, err))
		}
	}

	cfg := defaultConfigFile()
	cfg.Backend = s.Backend
	cfg.DSN = s.DSN
	if f.dataDir != "" {
		cfg.DataDir = s.Dirs.Data
	}
	configPath := filepath.Join(s.Dirs.Config, configFileName)
	written, err := writeConfigIfMissing(configPath, cfg)
	if err != nil {
		return sysError(fmt.Errorf("write config: %w", err))
	}

	backend, err := kv.Open(s.backendConfig())
	if err != nil {
		return classify(fmt.Errorf("initialize storage: %w", err))
	}
	if err := backend.Close(); err != nil {
		return sysError(fmt.Errorf("close storage: %w", err))
	}

	if f.jsonMode {
		return render(cmd.OutOrStdout(), true, map[string]any{
			"config_dir":     s.Dirs.Config,
			"data_dir":       s.Dirs.Data,
			"seed_dir":       s.Dirs.Seed,
			"backend":        s.Backend,
			"config_written": written,
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Storefront initialized (%s backend)\nconfig: %s\ndata:   %s\n",
		s.Backend, configPath, s.Dirs.Data)
	return nil
}
