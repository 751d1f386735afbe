package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pders01/catalog-delta/internal/config"
	"github.com/pders01/catalog-delta/internal/models"
	"github.com/pders01/catalog-delta/internal/source"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the default config and data directory layout",
	Long: `Write a default config file and create the catalog data directories.

This command:
  - Creates $HOME/.config/catdelta/config.toml (or --config) if missing
  - Creates <data_dir>/<icd|ops>/migrations

Place each catalog year under <data_dir>/<icd|ops>/<year>/ afterwards.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

func configPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func runInit(cmd *cobra.Command, args []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	exists, err := afero.Exists(dataFS, path)
	if err != nil {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	if exists && !initForce {
		fmt.Fprintf(out, "Config already exists: %s\n", path)
	} else {
		cfg := config.Default()
		cfg.Data.Dir = config.GetDataDir()

		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		if err := dataFS.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := afero.WriteFile(dataFS, path, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}
		fmt.Fprintf(out, "✓ Created default config: %s\n", path)
	}

	root := config.GetDataDir()
	for _, v := range models.Variants {
		dir := filepath.Join(root, string(v), source.MigrationDir)
		if err := dataFS.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	fmt.Fprintf(out, "✓ Data directory ready: %s\n", root)

	fmt.Fprintln(out, "\n✓ catdelta initialized successfully!")
	fmt.Fprintln(out, "  Add catalog years, then run: catdelta years")
	return nil
}
