package main

import (
	"fmt"
	"os"

	"github.com/julien-sobczak/the-notewriter-live/internal/highlight"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var hideSyntax bool
var dark bool
var thumbnails bool
var keyword string
var width int

func init() {
	highlightCmd.Flags().BoolVarP(&hideSyntax, "hide-syntax", "", false, "Hide syntax delimiters")
	highlightCmd.Flags().BoolVarP(&dark, "dark", "", false, "Use the dark palette")
	highlightCmd.Flags().BoolVarP(&thumbnails, "thumbnails", "", false, "Generate thumbnails of images")
	highlightCmd.Flags().StringVarP(&keyword, "search", "s", "", "Highlight the occurrences of a word")
	highlightCmd.Flags().IntVarP(&width, "width", "", 0, "Wrap lines (defaults to the terminal width, 0 to disable)")
	rootCmd.AddCommand(highlightCmd)
}

var highlightCmd = &cobra.Command{
	Use:   "highlight FILE",
	Short: "Preview a note",
	Long:  `Print a note in the terminal as rendered by the live editor.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, err := openNote(args[0], sessionOptions{
			hideSyntax: hideSyntax,
			dark:       dark,
			thumbnails: thumbnails,
		})
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		defer s.Close()
		s.wait()

		buf := s.editor.Buffer()
		if keyword != "" {
			count := s.editor.Highlighter().HighlightKeyword(buf, keyword)
			defer fmt.Printf("\n%d occurrence(s) of %q\n", count, keyword)
		}
		fmt.Println(wrap(highlight.RenderANSI(buf), cmd.Flags().Changed("width")))
	},
}

// wrap breaks long lines without splitting ANSI sequences.
func wrap(out string, explicit bool) string {
	limit := width
	if !explicit {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			limit = w
		}
	}
	if limit <= 0 {
		return out
	}
	return wordwrap.String(out, limit)
}
