package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/leapanim/internal/cli"
)

// generateCLIDocs writes index.md and one page per command into outDir.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rootCmd := cli.NewRootCmd()
	if err := generateCLIIndex(rootCmd, outDir); err != nil {
		return fmt.Errorf("failed to generate index: %w", err)
	}

	for _, cmd := range visibleCommands(rootCmd) {
		if err := generateCommandPage(cmd, outDir); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", cmd.Name(), err)
		}
		log.Printf("  Generated %s.md", cmd.Name())
	}
	return nil
}

func visibleCommands(root *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, cmd := range root.Commands() {
		if cmd.Hidden || cmd.Name() == "help" || cmd.Name() == "__complete" {
			continue
		}
		out = append(out, cmd)
	}
	return out
}

func generateCLIIndex(rootCmd *cobra.Command, outDir string) error {
	w := &markdownWriter{}
	w.header(1, "CLI Reference")
	w.paragraph(rootCmd.Long)

	w.header(2, "Commands")
	var rows [][]string
	for _, cmd := range visibleCommands(rootCmd) {
		rows = append(rows, []string{fmt.Sprintf("[%s](%s.md)", inlineCode(cmd.Name()), cmd.Name()), cmd.Short})
	}
	w.table([]string{"Command", "Description"}, rows)

	w.header(2, "Global Options")
	writeFlagsTable(w, rootCmd.PersistentFlags())

	w.header(2, "Configuration")
	w.paragraph(`Options are read from ./leapanim.yaml (or --config), then LEAPANIM_
environment variables (LEAPANIM_SAMPLE_WORKERS sets sample.workers), then
flags. Later sources win.`)

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.bytes(), 0600)
}

func generateCommandPage(cmd *cobra.Command, outDir string) error {
	w := &markdownWriter{}
	w.header(1, cmd.Name())
	if cmd.Long != "" {
		w.paragraph(cmd.Long)
	} else {
		w.paragraph(cmd.Short)
	}

	w.header(2, "Usage")
	w.codeBlock("bash", cmd.UseLine())

	if cmd.HasLocalFlags() {
		w.header(2, "Options")
		writeFlagsTable(w, cmd.LocalFlags())
	}
	if cmd.Example != "" {
		w.header(2, "Examples")
		w.codeBlock("bash", cleanExample(cmd.Example))
	}

	return os.WriteFile(filepath.Join(outDir, cmd.Name()+".md"), w.bytes(), 0600)
}

func writeFlagsTable(w *markdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden || f.Name == "help" {
			return
		}
		short := ""
		if f.Shorthand != "" {
			short = "-" + f.Shorthand
		}
		def := f.DefValue
		if def != "" {
			def = inlineCode(def)
		}
		rows = append(rows, []string{inlineCode("--" + f.Name), short, def, f.Usage})
	})
	w.table([]string{"Option", "Short", "Default", "Description"}, rows)
}

// cleanExample removes common leading whitespace from example text.
func cleanExample(example string) string {
	lines := strings.Split(example, "\n")
	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent <= 0 {
		return strings.TrimSpace(example)
	}
	for i, line := range lines {
		if len(line) >= minIndent {
			lines[i] = line[minIndent:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
