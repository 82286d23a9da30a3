package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/julien-sobczak/the-notewriter-live/internal/buffer"
	"github.com/julien-sobczak/the-notewriter-live/internal/editing"
	"github.com/julien-sobczak/the-notewriter-live/internal/markdown"
	"github.com/spf13/cobra"
)

var command string
var at int
var length int
var level int
var text string
var write bool

func init() {
	editCmd.Flags().StringVarP(&command, "command", "c", "", "Command to run ("+strings.Join(append(editing.Commands(), "insert", "toggle"), ", ")+")")
	editCmd.Flags().IntVarP(&at, "at", "", 0, "Start of the selection (in the loaded note, attachments count as one character)")
	editCmd.Flags().IntVarP(&length, "length", "", 0, "Length of the selection")
	editCmd.Flags().IntVarP(&level, "level", "", 1, "Header level")
	editCmd.Flags().StringVarP(&text, "text", "", "", "Text to insert")
	editCmd.Flags().BoolVarP(&write, "write", "w", false, "Save the result instead of printing it")
	editCmd.MarkFlagRequired("command")
	rootCmd.AddCommand(editCmd)
}

var editCmd = &cobra.Command{
	Use:   "edit FILE",
	Short: "Run an editing command",
	Long:  `Run an editing command on a note and print the resulting Markdown.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, saved, err := runEdit(args[0], editRequest{
			Command: command,
			At:      at,
			Length:  length,
			Level:   level,
			Text:    text,
		})
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if !write {
			fmt.Print(saved)
			return
		}
		if err := os.WriteFile(s.note.TextPath(), []byte(saved), 0644); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

type editRequest struct {
	Command string
	At      int
	Length  int
	Level   int
	Text    string
}

// runEdit applies a single command on a note and returns the Markdown it would save.
func runEdit(path string, req editRequest) (*session, markdown.Document, error) {
	var saved markdown.Document
	s, err := openNote(path, sessionOptions{
		saver: editing.SaverFunc(func(doc markdown.Document) error {
			saved = doc
			return nil
		}),
	})
	if err != nil {
		return nil, "", err
	}
	defer s.Close()

	editor := s.editor
	editor.Select(buffer.NewRange(req.At, req.Length))
	switch req.Command {
	case "insert":
		editor.Insert(req.Text)
	case "toggle":
		if !editor.Toggle(req.At) {
			return nil, "", fmt.Errorf("no todo at %d", req.At)
		}
	default:
		if err := editor.Execute(req.Command, req.Level); err != nil {
			return nil, "", err
		}
	}

	if saved == "" {
		saved = editor.Markdown()
	}
	return s, saved, nil
}
