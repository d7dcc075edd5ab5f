package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vango-dev/contactform/internal/config"
	"github.com/vango-dev/contactform/internal/errors"
)

func initCmd() *cobra.Command {
	var (
		endpoint string
		useYAML  bool
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a starter configuration file",
		Long: `Write contact.json (or contact.yaml with --yaml) with default values.

Examples:
  contactform init
  contactform init --endpoint https://example.com/contact
  contactform init ./site --yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			name := config.ConfigFileName
			if useYAML {
				name = "contact.yaml"
			}
			path := filepath.Join(dir, name)

			if _, err := os.Stat(path); err == nil && !force {
				return errors.New("C122").
					WithDetail(path + " already exists").
					WithSuggestion("Use --force to overwrite it")
			}

			cfg := config.New()
			cfg.Endpoint = endpoint
			if endpoint != "" {
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
			if err := cfg.SaveTo(path); err != nil {
				return err
			}

			success(cmd.OutOrStdout(), "Created %s", path)
			if endpoint == "" {
				info(cmd.OutOrStdout(), "Set \"endpoint\" before sending.")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&endpoint, "endpoint", "e", "", "URL the form is posted to")
	cmd.Flags().BoolVar(&useYAML, "yaml", false, "Write contact.yaml instead of contact.json")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}
