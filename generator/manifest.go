package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/satishbabariya/iconfont-go/codepoint"
)

// ManifestExt is the extension of the codepoint manifest.
const ManifestExt = "json"

// manifestData encodes the codepoint table as name -> hex codepoint.
func manifestData(table *codepoint.Table) ([]byte, error) {
	m := make(map[string]string, table.Len())
	for _, e := range table.Entries() {
		m[e.Name] = codepoint.Hex(e.Codepoint)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode codepoint manifest: %w", err)
	}
	return append(data, '\n'), nil
}

// LoadManifest reads a codepoint manifest written by an earlier run so its
// codepoints can be pinned as overrides. A missing file yields an empty map.
func LoadManifest(fs afero.Fs, path string) (map[string]rune, error) {
	data, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]rune{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read codepoint manifest: %w", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse codepoint manifest %s: %w", path, err)
	}
	out := make(map[string]rune, len(raw))
	for name, hex := range raw {
		cp, err := codepoint.Parse("0x" + hex)
		if err != nil {
			return nil, fmt.Errorf("codepoint manifest %s: %s: %w", path, name, err)
		}
		out[name] = cp
	}
	return out, nil
}
