package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

var docsCmd = &cobra.Command{
	Use:    "gen-docs",
	Short:  "Generate the shift man page or reference docs",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE:   runGenDocs,
}

func init() {
	docsCmd.Flags().String("dir", "docs", "output directory")
	docsCmd.Flags().String("format", "man", "output format: man, markdown, rest or yaml")
}

func runGenDocs(cmd *cobra.Command, _ []string) error {
	dir, _ := cmd.Flags().GetString("dir")       //nolint:errcheck // flag name is hardcoded
	format, _ := cmd.Flags().GetString("format") //nolint:errcheck // flag name is hardcoded

	// Generated pages go into the repo; keep them stable between runs.
	root := cmd.Root()
	root.DisableAutoGenTag = true

	var gen func() error
	switch format {
	case "man":
		gen = func() error {
			return doc.GenManTree(root, &doc.GenManHeader{
				Title:   "SHIFT",
				Section: "1",
				Manual:  "User Commands",
				Source:  "shift " + version,
			}, dir)
		}
	case "markdown":
		gen = func() error { return doc.GenMarkdownTree(root, dir) }
	case "rest":
		gen = func() error { return doc.GenReSTTree(root, dir) }
	case "yaml":
		gen = func() error { return doc.GenYamlTree(root, dir) }
	default:
		return fmt.Errorf("unknown format %q (use man, markdown, rest or yaml)", format)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := gen(); err != nil {
		return fmt.Errorf("generate %s docs: %w", format, err)
	}
	return nil
}
