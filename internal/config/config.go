package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/julien-sobczak/the-notewriter-live/internal/logger"
	"github.com/julien-sobczak/the-notewriter-live/internal/medias"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// How many parent directories to traverse before considering a directory as not a nt repository
const maxDepth = 10

// Default .nt/editor content
const DefaultConfig = `
[editor]
hideSyntax = false
fontFamily = "Helvetica Neue"
fontSize = 14.0
codeFontFamily = "Source Code Pro"
emojiFontFamily = "Apple Color Emoji"
codeTheme = "light"
lineBreakMode = "lenient"
indentUnit = "tab"
todoAttributeKey = "es.fsnot.todo"
extensions = ["md", "markdown"]

[medias]
command = "native"
maxImageWidth = 450
workers = 2
queueSize = 32
remoteTTL = "168h"
cacheDir = ".nt/cache"
`

// Note: Fields must be public for toml package to unmarshall
type ConfigFile struct {
	Editor ConfigEditor `toml:"editor"`
	Medias ConfigMedias `toml:"medias"`
}

type ConfigEditor struct {
	// Delimiters are shrunk and made transparent instead of being colored
	HideSyntax      bool    `toml:"hideSyntax"`
	FontFamily      string  `toml:"fontFamily"`
	FontSize        float64 `toml:"fontSize"`
	CodeFontFamily  string  `toml:"codeFontFamily"`
	EmojiFontFamily string  `toml:"emojiFontFamily"`
	// "light" or "dark"
	CodeTheme string `toml:"codeTheme"`
	// "strict" requires two trailing spaces for a hard break, "lenient" breaks on every newline
	LineBreakMode string `toml:"lineBreakMode"`
	// "tab" or "spaces" (4 spaces)
	IndentUnit       string   `toml:"indentUnit"`
	TodoAttributeKey string   `toml:"todoAttributeKey"`
	Extensions       []string `toml:"extensions"`
}

type ConfigMedias struct {
	// "native", "ffmpeg" or "random"
	Command       string `toml:"command"`
	MaxImageWidth int    `toml:"maxImageWidth"`
	Workers       int    `toml:"workers"`
	QueueSize     int    `toml:"queueSize"`
	RemoteTTL     string `toml:"remoteTTL"`
	CacheDir      string `toml:"cacheDir"`
}

// ThemeFile overrides palette colors (.nt/theme).
type ThemeFile struct {
	Light map[string]string `yaml:"light"`
	Dark  map[string]string `yaml:"dark"`
}

// SupportExtension checks if the given file extension must be considered.
func (f *ConfigFile) SupportExtension(path string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".") // ".md" => "md"
	return slices.ContainsFunc(f.Editor.Extensions, func(extension string) bool {
		return strings.EqualFold(extension, ext) // case-insensitive
	})
}

// Validate checks enumerated settings.
func (f *ConfigFile) Validate() error {
	var errs []error
	if !slices.Contains([]string{"light", "dark"}, f.Editor.CodeTheme) {
		errs = append(errs, fmt.Errorf("invalid codeTheme %q", f.Editor.CodeTheme))
	}
	if !slices.Contains([]string{"strict", "lenient"}, f.Editor.LineBreakMode) {
		errs = append(errs, fmt.Errorf("invalid lineBreakMode %q", f.Editor.LineBreakMode))
	}
	if !slices.Contains([]string{"tab", "spaces"}, f.Editor.IndentUnit) {
		errs = append(errs, fmt.Errorf("invalid indentUnit %q", f.Editor.IndentUnit))
	}
	if !slices.Contains([]string{"native", "ffmpeg", "random"}, f.Medias.Command) {
		errs = append(errs, fmt.Errorf("unsupported converter %q", f.Medias.Command))
	}
	if f.Medias.Workers < 1 {
		errs = append(errs, fmt.Errorf("invalid workers count %d", f.Medias.Workers))
	}
	if _, err := time.ParseDuration(f.Medias.RemoteTTL); err != nil {
		errs = append(errs, fmt.Errorf("invalid remoteTTL: %w", err))
	}
	return errors.Join(errs...)
}

/* Main config */

type Config struct {
	// Absolute top directory containing the .nt sub-directory
	RootDirectory string

	// .nt/editor content
	ConfigFile ConfigFile

	// .nt/theme content
	ThemeFile ThemeFile
}

// Default returns the configuration used outside a repository.
func Default() *Config {
	configFile, err := parseConfigFile(DefaultConfig, nil)
	if err != nil {
		panic(fmt.Sprintf("default configuration is broken: %v", err))
	}
	return &Config{
		ConfigFile: *configFile,
	}
}

// Clone returns a deep copy, useful to tweak settings (ex: hide syntax) without side-effects.
func (c *Config) Clone() *Config {
	var result Config
	if err := copier.CopyWithOption(&result, c, copier.Option{DeepCopy: true}); err != nil {
		panic(fmt.Sprintf("unable to clone configuration: %v", err))
	}
	return &result
}

// Indent returns the string inserted by one indentation level.
func (c *Config) Indent() string {
	if c.ConfigFile.Editor.IndentUnit == "spaces" {
		return "    "
	}
	return "\t"
}

// Dark returns if the dark palette is selected.
func (c *Config) Dark() bool {
	return c.ConfigFile.Editor.CodeTheme == "dark"
}

// StrictLineBreak returns if hard breaks require two trailing spaces.
func (c *Config) StrictLineBreak() bool {
	return c.ConfigFile.Editor.LineBreakMode == "strict"
}

// RemoteTTL returns how long thumbnails of remote images remain valid.
func (c *Config) RemoteTTL() time.Duration {
	d, err := time.ParseDuration(c.ConfigFile.Medias.RemoteTTL)
	if err != nil {
		return 7 * 24 * time.Hour
	}
	return d
}

// CacheDirectory returns the absolute directory where thumbnails are stored.
func (c *Config) CacheDirectory() string {
	dir := c.ConfigFile.Medias.CacheDir
	if filepath.IsAbs(dir) {
		return dir
	}
	root := c.RootDirectory
	if root == "" {
		root = os.TempDir()
	}
	return filepath.Join(root, dir)
}

// Converter returns the converter to use when creating thumbnails from media files.
func (c *Config) Converter() (medias.Converter, error) {
	switch c.ConfigFile.Medias.Command {
	case "", "native":
		return medias.NewNativeConverter(), nil
	case "ffmpeg":
		converter, err := medias.NewFFmpegConverter()
		if err != nil {
			return nil, err
		}
		converter.OnPreGeneration(func(cmd string, args ...string) {
			logger.Debugf("Running command %q", cmd+" "+strings.Join(args, " "))
		})
		return converter, nil
	case "random":
		return medias.NewRandomConverter(), nil
	}
	return nil, fmt.Errorf("unsupported converter %q", c.ConfigFile.Medias.Command)
}

// ReadConfigFromDirectory loads the configuration by searching for a .nt directory in the given directory
// or any parent directories. The default configuration rooted at the given path is returned when none is found.
func ReadConfigFromDirectory(path string) (*Config, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	rootPath, found, err := searchRootDirectory(path)
	if err != nil {
		return nil, err
	}
	if !found {
		config := Default()
		config.RootDirectory = path
		return config, nil
	}

	defaults, err := parseConfigFile(DefaultConfig, nil)
	if err != nil {
		return nil, fmt.Errorf("default configuration is broken: %v", err)
	}

	// Check for .nt/editor
	configFile := defaults
	content, err := os.ReadFile(filepath.Join(rootPath, ".nt", "editor"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .nt/editor file: %w", err)
	}
	if err == nil {
		configFile, err = parseConfigFile(string(content), defaults)
		if err != nil {
			return nil, fmt.Errorf("failed to parse .nt/editor file: %w", err)
		}
	}
	if err := configFile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid .nt/editor file: %w", err)
	}

	// Check for .nt/theme
	var themeFile ThemeFile
	content, err = os.ReadFile(filepath.Join(rootPath, ".nt", "theme"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .nt/theme file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(content, &themeFile); err != nil {
			return nil, fmt.Errorf("failed to parse .nt/theme file: %w", err)
		}
	}

	return &Config{
		RootDirectory: rootPath,
		ConfigFile:    *configFile,
		ThemeFile:     themeFile,
	}, nil
}

func searchRootDirectory(path string) (string, bool, error) {
	rootPath := path
	for i := 0; i < maxDepth; i++ { // Safeguard to not go up too far
		stat, err := os.Stat(filepath.Join(rootPath, ".nt"))
		if err == nil && stat.IsDir() {
			return rootPath, true, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("error while searching for configuration directory: %w", err)
		}
		parent := filepath.Dir(rootPath)
		if parent == rootPath {
			// Root directory detected
			break
		}
		rootPath = parent
	}
	return "", false, nil
}

func parseConfigFile(content string, defaults *ConfigFile) (*ConfigFile, error) {
	var result ConfigFile
	if defaults != nil {
		result = *defaults
		result.Editor.Extensions = slices.Clone(defaults.Editor.Extensions)
	}
	d := toml.NewDecoder(strings.NewReader(content))
	d.DisallowUnknownFields()
	err := d.Decode(&result)
	return &result, err
}
