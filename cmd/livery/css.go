package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"livery"
)

func newCSSCmd() *cobra.Command {
	var (
		schemaFile string
		themesDir  string
		defaultID  string
		prefix     string
		separator  string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "css",
		Short: "Serialize theme payloads into CSS custom-property declarations",
		Long: `Loads a token schema, resolves every payload file in the themes
directory against it, and emits one selector-scoped rule block per theme with
the default theme's declarations under :root. With a single theme and no
--default, a bare :root block is emitted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, err := livery.LoadSchemaFile(schemaFile)
			if err != nil {
				return err
			}

			themes, err := loadThemes(schema, themesDir)
			if err != nil {
				return err
			}
			if len(themes) == 0 {
				return fmt.Errorf("no theme payloads found in %q", themesDir)
			}

			opts := livery.CSSOptions{Prefix: prefix, Separator: separator}

			var css string
			switch {
			case defaultID != "":
				css, err = livery.ToCSSStringAll(schema, themes, defaultID, opts)
			case len(themes) == 1:
				for _, theme := range themes {
					css, err = livery.ToCSSString(schema, theme, opts)
				}
			default:
				return fmt.Errorf("multiple themes found; pick one with --default")
			}
			if err != nil {
				return err
			}

			if output == "" {
				_, werr := fmt.Fprint(cmd.OutOrStdout(), css)
				return werr
			}
			if err := livery.WriteCSSFile(output, css); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d theme(s) to %s\n", len(themes), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaFile, "schema", "", "schema definition file (toml/json/yaml)")
	cmd.Flags().StringVar(&themesDir, "themes", "", "directory of theme payload files")
	cmd.Flags().StringVar(&defaultID, "default", "", "theme id emitted under :root in multi-theme output")
	cmd.Flags().StringVar(&prefix, "prefix", "", "custom-property name prefix")
	cmd.Flags().StringVar(&separator, "separator", "-", "path segment separator in property names")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("themes")

	return cmd
}

// loadThemes resolves every payload file in dir to a complete theme.
func loadThemes(schema *livery.Schema, dir string) (map[string]livery.Theme, error) {
	fetcher, err := livery.NewFileFetcher(dir)
	if err != nil {
		return nil, err
	}

	ids, err := payloadIDs(dir)
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)

	themes := make(map[string]livery.Theme, len(ids))
	for _, id := range ids {
		payload, err := fetcher.Fetch(context.Background(), id)
		if err != nil {
			return nil, fmt.Errorf("theme %q: %w", id, err)
		}
		theme, err := livery.Merge(schema, payload)
		if err != nil {
			return nil, err
		}
		themes[id] = theme
	}

	return themes, nil
}

func payloadIDs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read themes directory %q: %w", dir, err)
	}

	seen := make(map[string]bool)
	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		switch ext {
		case ".toml", ".json", ".yaml", ".yml":
			id := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}
