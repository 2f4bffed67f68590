package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/iconfont-go/format"
)

const icon = `<svg viewBox="0 0 24 24"><path d="M0 0h24v24H0z"/></svg>`

func memFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	old := AppFs
	AppFs = fs
	t.Cleanup(func() { AppFs = old })
	return fs
}

func TestLoadConfigFile(t *testing.T) {
	memFs(t, map[string]string{
		"/proj/.iconfont.yaml": `
name: glyphs
dest: /proj/dist
icons:
  - /proj/icons
types: [ttf, woff2]
start: 0xe000
codepoints:
  arrowLeft: "0xe100"
rename:
  arrowLeft: back
font_height: 512
normalize: true
`,
	})

	cfg, err := LoadConfig(viper.New(), "/proj/.iconfont.yaml")
	require.NoError(t, err)

	assert.Equal(t, "glyphs", cfg.Name)
	assert.Equal(t, "/proj/dist", cfg.Dest)
	assert.Equal(t, []string{"/proj/icons"}, cfg.Icons)
	assert.Equal(t, []string{"ttf", "woff2"}, cfg.Types)
	assert.Equal(t, 512.0, cfg.FontHeight)
	assert.True(t, cfg.Normalize)
	assert.Equal(t, ".icon", cfg.Selector, "default kept")
	assert.Len(t, cfg.Codepoints, 1)
	assert.Len(t, cfg.Rename, 1)
}

func TestLoadConfigDefaults(t *testing.T) {
	memFs(t, nil)

	cfg, err := LoadConfig(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, Defaults().Name, cfg.Name)
	assert.Equal(t, []string{"woff2", "woff"}, cfg.Types)
	assert.Equal(t, "0xf101", cfg.Start)
}

func TestLoadConfigEnv(t *testing.T) {
	memFs(t, nil)
	t.Setenv("ICONFONT_NAME", "fromenv")

	cfg, err := LoadConfig(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "fromenv", cfg.Name)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	memFs(t, nil)

	_, err := LoadConfig(viper.New(), "/nope/.iconfont.yaml")
	assert.Error(t, err)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	memFs(t, nil)

	cfg := Defaults()
	cfg.Name = "saved"
	cfg.Manifest = true
	require.NoError(t, SaveConfig(cfg, "/proj/.iconfont.yaml"))

	got, err := LoadConfig(viper.New(), "/proj/.iconfont.yaml")
	require.NoError(t, err)
	assert.Equal(t, "saved", got.Name)
	assert.True(t, got.Manifest)
	assert.Equal(t, cfg.Types, got.Types)
}

func TestExpandIcons(t *testing.T) {
	fs := memFs(t, map[string]string{
		"/icons/b.svg":        icon,
		"/icons/a.svg":        icon,
		"/icons/readme.txt":   "x",
		"/extra/c.svg":        icon,
		"/extra/nested/d.svg": icon,
	})

	files, err := ExpandIcons(fs, []string{"/icons", "/extra/*.svg", "/icons/a.svg"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/icons/a.svg", "/icons/b.svg", "/extra/c.svg"}, files)

	_, err = ExpandIcons(fs, []string{"/missing.svg"})
	assert.Error(t, err)

	_, err = ExpandIcons(fs, []string{"/none/*.svg"})
	assert.ErrorIs(t, err, ErrNoIconsMatched)
}

func TestConfigRequest(t *testing.T) {
	fs := memFs(t, map[string]string{
		"/icons/arrowLeft.svg": icon,
		"/icons/home.svg":      icon,
	})

	cfg := Defaults()
	cfg.Icons = []string{"/icons"}
	cfg.Dest = "/out"
	cfg.Types = []string{"svg,ttf"}
	cfg.Start = "U+E000"
	// keys arrive lowercased from viper
	cfg.Rename = map[string]string{"arrowleft": "back"}
	cfg.Codepoints = map[string]string{"home": "0xe050", "back": "57409"}
	cfg.FontVersion = "2.1"

	req, err := cfg.Request(fs)
	require.NoError(t, err)

	assert.Equal(t, "icons", req.FontName)
	require.Len(t, req.Icons, 2)
	assert.Equal(t, "arrowLeft", req.Icons[0].Name)
	assert.Equal(t, []format.Format{format.TTF, format.SVG}, req.Formats)
	assert.Equal(t, rune(0xe000), req.StartCodepoint)
	assert.Equal(t, map[string]string{"arrowLeft": "back"}, req.Rename)
	assert.Equal(t, map[string]rune{"home": 0xe050, "back": 57409}, req.Codepoints)
	assert.Equal(t, "2.1", req.TTF.Version)
	assert.Equal(t, "icons", req.Font.FontName)
	assert.Equal(t, "icon-", req.CSS.ClassPrefix)
}

func TestConfigRequestErrors(t *testing.T) {
	fs := memFs(t, map[string]string{"/icons/a.svg": icon})

	cfg := Defaults()
	cfg.Icons = []string{"/icons"}
	cfg.Types = []string{"eot"}
	_, err := cfg.Request(fs)
	assert.ErrorIs(t, err, format.ErrUnknownFormat)

	cfg = Defaults()
	cfg.Icons = []string{"/icons"}
	cfg.Start = "nope"
	_, err = cfg.Request(fs)
	assert.Error(t, err)

	cfg = Defaults()
	cfg.Icons = []string{"/icons"}
	cfg.Codepoints = map[string]string{"a": "zz"}
	_, err = cfg.Request(fs)
	assert.Error(t, err)
}
