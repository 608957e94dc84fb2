package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kanbanwave/internal/paths"
)

func newInitCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize kanban storage",
		Long:  "Create the configuration and data directories, write config.yaml if missing,\nthen attach and detach the storage backend once.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, f)
		},
	}
}

func runInit(cmd *cobra.Command, f *rootFlags) error {
	configDir, err := paths.ResolveConfigDir(f.configDir)
	if err != nil {
		return systemError(fmt.Errorf("resolve config dir: %w", err))
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return systemError(fmt.Errorf("create config directory: %w", err))
	}

	cfg, err := resolveConfig(f)
	if err != nil {
		return err
	}
	written, err := writeConfigIfMissing(configDir, configFile{
		Backend:      cfg.Backend,
		DataDir:      cfg.DataDir,
		SyncStrategy: cfg.SyncStrategy,
	})
	if err != nil {
		return systemError(fmt.Errorf("write config: %w", err))
	}

	storage := newStorage(cfg)
	if err := storage.Attach(cfg); err != nil {
		return systemError(fmt.Errorf("initialize storage: %w", err))
	}
	if err := storage.Detach(); err != nil {
		return systemError(fmt.Errorf("finalize storage: %w", err))
	}

	if f.jsonMode {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"config_dir":     configDir,
			"data_dir":       cfg.DataDir,
			"backend":        cfg.Backend,
			"config_written": written,
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s storage in %s\n", cfg.Backend, cfg.DataDir)
	return nil
}
