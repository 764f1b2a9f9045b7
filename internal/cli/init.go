package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/graphbridge/internal/paths"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize graphbridge configuration and storage",
		Long: "Create the configuration and data directories, write a default config.yaml\n" +
			"if none exists, and create the property store with its default folders.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd)
		},
	}
}

func (a *app) runInit(cmd *cobra.Command) error {
	configDir := a.settings.configDir
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return sysError("create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, paths.ConfigFile)
	written, err := writeConfigIfMissing(configPath, a.settings)
	if err != nil {
		return sysError("write config: %w", err)
	}
	if written {
		a.logger.Info("wrote config", "path", configPath)
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}
	if err := store.Detach(); err != nil {
		return sysError("finalize storage: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "graphbridge initialized\nconfig: %s\ndata:   %s\n", configPath, a.settings.DataDir)
	return nil
}
