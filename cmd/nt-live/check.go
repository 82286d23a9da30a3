package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/julien-sobczak/the-notewriter-live/internal/config"
	"github.com/julien-sobczak/the-notewriter-live/internal/helpers"
	"github.com/julien-sobczak/the-notewriter-live/internal/highlight"
	"github.com/julien-sobczak/the-notewriter-live/internal/markdown"
	"github.com/julien-sobczak/the-notewriter-live/internal/note"
	"github.com/julien-sobczak/the-notewriter-live/pkg/console"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check [DIR]",
	Short: "Check notes",
	Long:  `Check that every note survives a load/unload cycle and that highlighting is stable.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		cfg, err := config.ReadConfigFromDirectory(dir)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		paths, err := findNotes(cfg, dir)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		progress := console.NewProgressLog(len(paths), console.ShowPercent())
		var results []checkResult
		for _, path := range paths {
			progress.Step(filepath.Base(path))
			result, err := checkNote(path, cfg.RootDirectory)
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			results = append(results, result)
		}
		progress.Clear(fmt.Sprintf("%d note(s) checked", len(results)))

		failures := 0
		for _, line := range strings.Split(strings.TrimSuffix(formatCheck(results), "\n"), "\n") {
			switch {
			case strings.HasPrefix(strings.TrimSpace(line), "ok:"):
				color.Green(line)
			case line != "":
				failures++
				color.Red(line)
			}
		}
		if failures > 0 {
			os.Exit(1)
		}
	},
}

type checkResult struct {
	RelativePath string
	Hash         string
	RoundTrip    bool
	Idempotent   bool
	Headings     int
	Attachments  int
	Links        int
	Wikilinks    int
}

func (r checkResult) OK() bool {
	return r.RoundTrip && r.Idempotent
}

// findNotes lists the markdown files under a directory. Bundles are returned instead of their text file.
func findNotes(cfg *config.Config, dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if entry.Name() == ".nt" {
				return filepath.SkipDir
			}
			return nil
		}
		if !cfg.ConfigFile.SupportExtension(path) {
			return nil
		}
		if parent := filepath.Dir(path); strings.HasSuffix(parent, note.BundleExtension) {
			path = parent
		}
		paths = append(paths, path)
		return nil
	})
	return paths, err
}

func checkNote(path, root string) (checkResult, error) {
	s, err := openNote(path, sessionOptions{})
	if err != nil {
		return checkResult{}, err
	}
	defer s.Close()

	result := checkResult{
		RelativePath: path,
	}
	if relativePath, err := filepath.Rel(root, path); err == nil {
		result.RelativePath = relativePath
	}
	result.Hash, err = helpers.HashFromFile(s.note.TextPath())
	if err != nil {
		return checkResult{}, err
	}

	content, err := os.ReadFile(s.note.TextPath())
	if err != nil {
		return checkResult{}, err
	}
	doc := markdown.Document(content).MustTransform(markdown.NormalizeLineEndings())
	result.RoundTrip = s.editor.Markdown() == doc

	buf := s.editor.Buffer()
	r, attrs := s.editor.Highlighter().Styles(buf, highlight.Full(), s.note)
	result.Idempotent = slices.Equal(attrs, buf.Attributes(r))

	for i := 0; i < buf.Len(); i++ {
		if buf.At(i).HasAttachment() {
			result.Attachments++
		}
	}
	result.Headings = len(doc.Outline())
	result.Links = len(doc.Links())
	result.Wikilinks = len(doc.Wikilinks())
	return result, nil
}

func formatCheck(results []checkResult) string {
	var sb strings.Builder
	for _, result := range results {
		var problems []string
		if !result.RoundTrip {
			problems = append(problems, "round-trip")
		}
		if !result.Idempotent {
			problems = append(problems, "idempotence")
		}
		if len(problems) > 0 {
			sb.WriteString(fmt.Sprintf("%8s: %s [%s] (%s)\n", "failed", result.RelativePath, strings.Join(problems, ", "), shortHash(result.Hash)))
			continue
		}
		sb.WriteString(fmt.Sprintf("%8s: %s (%d heading(s), %d attachment(s), %d link(s), %d wikilink(s))\n", "ok", result.RelativePath, result.Headings, result.Attachments, result.Links, result.Wikilinks))
	}
	return sb.String()
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
