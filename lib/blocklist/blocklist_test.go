package blocklist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowed(t *testing.T) {
	bl := Blocklist{
		CaseSensitive:   map[string]bool{"IT": true},
		CaseInsensitive: map[string]bool{"protein": true},
	}

	assert.False(t, bl.Allowed("IT"))
	assert.True(t, bl.Allowed("it"))
	assert.False(t, bl.Allowed("protein"))
	assert.False(t, bl.Allowed("Protein"))
	assert.True(t, bl.Allowed("Juan"))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocklist.yml")
	err := os.WriteFile(path, []byte(`case_sensitive:
  - IT
case_insensitive:
  - Madrid
`), 0600)
	assert.NoError(t, err)

	bl, err := Load(path)
	assert.NoError(t, err)

	assert.False(t, bl.Allowed("IT"))
	assert.True(t, bl.Allowed("it"))

	// case insensitive entries are lowercased on load
	assert.False(t, bl.Allowed("MADRID"))
	assert.False(t, bl.Allowed("madrid"))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
