// Package config loads iconfont settings from config files, the environment
// and command line flags, and turns them into generation requests.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/satishbabariya/iconfont-go/codepoint"
	"github.com/satishbabariya/iconfont-go/font/sfnt"
	"github.com/satishbabariya/iconfont-go/font/svgfont"
	"github.com/satishbabariya/iconfont-go/format"
	"github.com/satishbabariya/iconfont-go/generator"
	"github.com/satishbabariya/iconfont-go/generator/css"
	"github.com/satishbabariya/iconfont-go/internal/debug"
)

// AppFs is the filesystem config files, icons and fonts live on.
var AppFs = afero.NewOsFs()

// FileName is the base name of the config file, without extension.
const FileName = ".iconfont"

// EnvPrefix prefixes environment variables, e.g. ICONFONT_NAME.
const EnvPrefix = "ICONFONT"

// Config keys.
const (
	KeyName        = "name"
	KeyDest        = "dest"
	KeyIcons       = "icons"
	KeyTypes       = "types"
	KeyStart       = "start"
	KeyCodepoints  = "codepoints"
	KeyRename      = "rename"
	KeySelector    = "selector"
	KeyPrefix      = "prefix"
	KeyFontURL     = "font_url"
	KeyHash        = "hash"
	KeyFontHeight  = "font_height"
	KeyNormalize   = "normalize"
	KeyCenter      = "center"
	KeyFixedWidth  = "fixed_width"
	KeyRound       = "round"
	KeyAscent      = "ascent"
	KeyDescent     = "descent"
	KeyCopyright   = "copyright"
	KeyDescription = "description"
	KeyURL         = "url"
	KeyFontVersion = "font_version"
	KeyVendor      = "vendor"
	KeyMetadata    = "metadata"
	KeyManifest    = "manifest"
	KeyRequires    = "requires"
)

// ErrNoIconsMatched is returned when icon patterns match no files.
var ErrNoIconsMatched = errors.New("no SVG icons matched")

// Config holds the application configuration
type Config struct {
	Name        string            `mapstructure:"name"`
	Dest        string            `mapstructure:"dest"`
	Icons       []string          `mapstructure:"icons"`
	Types       []string          `mapstructure:"types"`
	Start       string            `mapstructure:"start"`
	Codepoints  map[string]string `mapstructure:"codepoints"`
	Rename      map[string]string `mapstructure:"rename"`
	Selector    string            `mapstructure:"selector"`
	Prefix      string            `mapstructure:"prefix"`
	FontURL     string            `mapstructure:"font_url"`
	Hash        string            `mapstructure:"hash"`
	FontHeight  float64           `mapstructure:"font_height"`
	Normalize   bool              `mapstructure:"normalize"`
	Center      bool              `mapstructure:"center"`
	FixedWidth  bool              `mapstructure:"fixed_width"`
	Round       float64           `mapstructure:"round"`
	Ascent      float64           `mapstructure:"ascent"`
	Descent     float64           `mapstructure:"descent"`
	Copyright   string            `mapstructure:"copyright"`
	Description string            `mapstructure:"description"`
	URL         string            `mapstructure:"url"`
	FontVersion string            `mapstructure:"font_version"`
	Vendor      string            `mapstructure:"vendor"`
	Metadata    string            `mapstructure:"metadata"`
	Manifest    bool              `mapstructure:"manifest"`
	Requires    string            `mapstructure:"requires"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		Name:     "icons",
		Dest:     "./fonts",
		Icons:    []string{"./icons"},
		Types:    []string{format.WOFF2.Ext(), format.WOFF.Ext()},
		Start:    "0x" + codepoint.Hex(codepoint.DefaultStart),
		Selector: css.DefaultSelector,
		Prefix:   css.DefaultPrefix,
	}
}

// Setup registers defaults, config search paths and environment binding on v.
func Setup(v *viper.Viper) error {
	home, err := homedir.Dir()
	if err != nil {
		return err
	}

	v.SetFs(AppFs)
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(home)
	v.AddConfigPath(filepath.Join(home, ".config", "iconfont"))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault(KeyName, d.Name)
	v.SetDefault(KeyDest, d.Dest)
	v.SetDefault(KeyIcons, d.Icons)
	v.SetDefault(KeyTypes, d.Types)
	v.SetDefault(KeyStart, d.Start)
	v.SetDefault(KeySelector, d.Selector)
	v.SetDefault(KeyPrefix, d.Prefix)
	return nil
}

// LoadConfig loads configuration into v from cfgFile, or from the first
// .iconfont.yaml on the search path when cfgFile is empty. .env and
// .env.local are loaded into the environment first.
func LoadConfig(v *viper.Viper, cfgFile string) (*Config, error) {
	loadDotEnv()

	if err := Setup(v); err != nil {
		return nil, err
	}
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		debug.Debug("No config file found, using defaults")
	} else {
		debug.Debug("Config file loaded", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

func loadDotEnv() {
	// Load .env file if it exists
	if _, err := AppFs.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			debug.Warn("Failed to load .env", "error", err)
		}
	}

	// Load .env.local if it exists (higher priority)
	if _, err := AppFs.Stat(".env.local"); err == nil {
		if err := godotenv.Overload(".env.local"); err != nil {
			debug.Warn("Failed to load .env.local", "error", err)
		}
	}
}

// SaveConfig writes cfg as YAML to path.
func SaveConfig(cfg *Config, path string) error {
	v := viper.New()
	v.SetFs(AppFs)
	v.Set(KeyName, cfg.Name)
	v.Set(KeyDest, cfg.Dest)
	v.Set(KeyIcons, cfg.Icons)
	v.Set(KeyTypes, cfg.Types)
	v.Set(KeyStart, cfg.Start)
	v.Set(KeySelector, cfg.Selector)
	v.Set(KeyPrefix, cfg.Prefix)
	if cfg.FontURL != "" {
		v.Set(KeyFontURL, cfg.FontURL)
	}
	if cfg.FontHeight > 0 {
		v.Set(KeyFontHeight, cfg.FontHeight)
	}
	if cfg.Normalize {
		v.Set(KeyNormalize, true)
	}
	if cfg.Manifest {
		v.Set(KeyManifest, true)
	}
	if len(cfg.Codepoints) > 0 {
		v.Set(KeyCodepoints, cfg.Codepoints)
	}
	if len(cfg.Rename) > 0 {
		v.Set(KeyRename, cfg.Rename)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := AppFs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// ExpandIcons resolves icon patterns into files. A pattern is a directory
// (every *.svg inside, sorted), a glob, or a file. Duplicates keep their
// first position.
func ExpandIcons(fs afero.Fs, patterns []string) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	add := func(p string) {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, pattern := range patterns {
		if isDir, _ := afero.IsDir(fs, pattern); isDir {
			matches, err := afero.Glob(fs, filepath.Join(pattern, "*.svg"))
			if err != nil {
				return nil, err
			}
			sort.Strings(matches)
			for _, m := range matches {
				add(m)
			}
			continue
		}
		if strings.ContainsAny(pattern, "*?[") {
			matches, err := afero.Glob(fs, pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid icon pattern %q: %w", pattern, err)
			}
			sort.Strings(matches)
			for _, m := range matches {
				add(m)
			}
			continue
		}
		if ok, _ := afero.Exists(fs, pattern); !ok {
			return nil, fmt.Errorf("icon not found: %s", pattern)
		}
		add(pattern)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoIconsMatched, strings.Join(patterns, ", "))
	}
	return out, nil
}

// Request builds the generation request described by c.
func (c *Config) Request(fs afero.Fs) (generator.Request, error) {
	files, err := ExpandIcons(fs, c.Icons)
	if err != nil {
		return generator.Request{}, err
	}
	icons := make([]generator.IconSource, len(files))
	names := make([]string, len(files))
	for i, f := range files {
		icons[i] = generator.NewIconSource(f)
		names[i] = icons[i].Name
	}

	formats, err := format.ParseList(c.Types)
	if err != nil {
		return generator.Request{}, err
	}

	var start rune
	if c.Start != "" {
		if start, err = codepoint.Parse(c.Start); err != nil {
			return generator.Request{}, fmt.Errorf("invalid start codepoint: %w", err)
		}
	}

	rename := restoreCase(c.Rename, names)
	overrides := make(map[string]rune, len(c.Codepoints))
	for name, value := range restoreCase(c.Codepoints, displayNames(names, rename)) {
		cp, err := codepoint.Parse(value)
		if err != nil {
			return generator.Request{}, fmt.Errorf("codepoint for %q: %w", name, err)
		}
		overrides[name] = cp
	}

	req := generator.Request{
		FontName:       c.Name,
		Dest:           c.Dest,
		Icons:          icons,
		Formats:        formats,
		StartCodepoint: start,
		Codepoints:     overrides,
		Rename:         rename,
		Font: svgfont.Options{
			FontName:           c.Name,
			FontHeight:         c.FontHeight,
			Normalize:          c.Normalize,
			CenterHorizontally: c.Center,
			FixedWidth:         c.FixedWidth,
			Round:              c.Round,
			Ascent:             c.Ascent,
			Descent:            c.Descent,
		},
		TTF: sfnt.Options{
			Copyright:   c.Copyright,
			Description: c.Description,
			URL:         c.URL,
			Version:     c.FontVersion,
			VendorID:    c.Vendor,
		},
		Metadata: c.Metadata,
		CSS: css.Options{
			BaseSelector: c.Selector,
			ClassPrefix:  c.Prefix,
			FontURL:      c.FontURL,
			Hash:         c.Hash,
		},
		Manifest: c.Manifest,
	}
	return req.WithDefaults(), nil
}

func displayNames(names []string, rename map[string]string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = codepoint.Resolve(n, rename)
	}
	return out
}

// restoreCase maps keys of m back onto the names they refer to. Config keys
// are case-insensitive, so a key only keeps its spelling when no name
// matches it ignoring case.
func restoreCase(m map[string]string, names []string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	byFold := make(map[string]string, len(names))
	for _, n := range names {
		if _, ok := byFold[strings.ToLower(n)]; !ok {
			byFold[strings.ToLower(n)] = n
		}
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		if n, ok := byFold[strings.ToLower(k)]; ok {
			k = n
		}
		out[k] = v
	}
	return out
}
