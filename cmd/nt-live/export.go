package main

import (
	"fmt"
	"os"

	"github.com/julien-sobczak/the-notewriter-live/pkg/markdown"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var open bool
var output string

func init() {
	exportCmd.Flags().BoolVarP(&open, "open", "", false, "Open the page in the browser")
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "Destination file")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Export a note to HTML",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, err := openNote(args[0], sessionOptions{})
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		defer s.Close()

		page := markdown.ToHTMLPage(s.note.Title(), s.editor.Markdown().String())

		destination := output
		if destination == "" && open {
			f, err := os.CreateTemp("", "nt-live-*.html")
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			f.Close()
			destination = f.Name()
		}
		if destination == "" {
			fmt.Println(page)
			return
		}

		if err := os.WriteFile(destination, []byte(page), 0644); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if open {
			if err := browser.OpenFile(destination); err != nil {
				fmt.Fprintf(os.Stderr, "Unable to open %s: %v", destination, err)
				os.Exit(1)
			}
		}
	},
}
