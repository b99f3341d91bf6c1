package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/nullnotice/internal/config"
	"github.com/cleared-dev/nullnotice/internal/letter"
)

func newInitCommand() *cobra.Command {
	var force bool
	var withTemplates bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default configuration and archive directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir, force, withTemplates); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized nullnotice at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration")
	cmd.Flags().BoolVar(&withTemplates, "templates", false, "copy the built-in letter templates for editing")

	return cmd
}

func runInit(dir string, force, withTemplates bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	cfg := config.Default()

	if err := os.MkdirAll(filepath.Join(dir, cfg.Archive.Dir), 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", cfg.Archive.Dir, err)
	}

	if withTemplates {
		cfg.Letter.TemplatesDir = "templates"
		if err := letter.WriteBuiltin(filepath.Join(dir, cfg.Letter.TemplatesDir)); err != nil {
			return fmt.Errorf("writing templates: %w", err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
