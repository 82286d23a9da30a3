package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julien-sobczak/the-notewriter-live/internal/attachment"
	"github.com/julien-sobczak/the-notewriter-live/internal/config"
	"github.com/julien-sobczak/the-notewriter-live/internal/editing"
	"github.com/julien-sobczak/the-notewriter-live/internal/markdown"
	"github.com/julien-sobczak/the-notewriter-live/internal/medias"
	"github.com/julien-sobczak/the-notewriter-live/internal/note"
)

// session groups everything needed to work on a single note.
type session struct {
	cfg    *config.Config
	note   *note.Note
	bridge *attachment.Bridge
	editor *editing.Editor
}

type sessionOptions struct {
	hideSyntax bool
	dark       bool
	thumbnails bool
	saver      editing.Saver
}

// openNote loads a note using the configuration of its repository.
func openNote(path string, opts sessionOptions) (*session, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	cfg, err := config.ReadConfigFromDirectory(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	if opts.hideSyntax || opts.dark {
		cfg = cfg.Clone()
		cfg.ConfigFile.Editor.HideSyntax = cfg.ConfigFile.Editor.HideSyntax || opts.hideSyntax
		if opts.dark {
			cfg.ConfigFile.Editor.CodeTheme = "dark"
		}
	}

	var bridgeOptions attachment.Options
	if opts.thumbnails {
		converter, err := cfg.Converter()
		if err != nil {
			return nil, err
		}
		bridgeOptions = attachment.Options{
			Cache:     medias.NewCache(cfg.CacheDirectory(), converter, cfg.ConfigFile.Medias.MaxImageWidth, cfg.RemoteTTL()),
			Workers:   cfg.ConfigFile.Medias.Workers,
			QueueSize: cfg.ConfigFile.Medias.QueueSize,
		}
	}

	n := note.New(path, cfg.RootDirectory)
	content, err := os.ReadFile(n.TextPath())
	if err != nil {
		return nil, fmt.Errorf("unable to read note %s: %w", n.Title(), err)
	}

	bridge := attachment.NewBridge(bridgeOptions)
	editor := editing.New(cfg, n, bridge, opts.saver)
	if err := editor.Load(markdown.Document(content)); err != nil {
		bridge.Close()
		return nil, err
	}
	return &session{
		cfg:    cfg,
		note:   n,
		bridge: bridge,
		editor: editor,
	}, nil
}

// wait applies the pending thumbnails.
func (s *session) wait() {
	s.bridge.Wait()
	s.editor.Pump()
}

func (s *session) Close() {
	s.bridge.Close()
}
