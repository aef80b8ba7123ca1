package world

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadIndex(t *testing.T) {
	dir := t.TempDir()
	mobs := writeCatalog(t, dir, "mobs.yaml", `entries:
  - vnum: 3005
    name: the cityguard
  - vnum: 3060
    name: the receptionist
`)
	objs := writeCatalog(t, dir, "objects.yaml", `entries:
  - vnum: 3050
    name: a bread loaf
`)

	idx, err := LoadIndex(mobs, objs)
	require.NoError(t, err)

	assert.Equal(t, 2, idx.MobCount())
	assert.Equal(t, 1, idx.ObjCount())
	assert.True(t, idx.MobExists(3005))
	assert.True(t, idx.MobExists(3060))
	assert.False(t, idx.MobExists(9999))
	assert.True(t, idx.ObjExists(3050))
	assert.False(t, idx.ObjExists(3005))
}

func TestLoadIndexEmptyPaths(t *testing.T) {
	idx, err := LoadIndex("", "")
	require.NoError(t, err)
	assert.Equal(t, 0, idx.MobCount())
	assert.Equal(t, 0, idx.ObjCount())
}

func TestLoadIndexMissingFile(t *testing.T) {
	_, err := LoadIndex(filepath.Join(t.TempDir(), "absent.yaml"), "")
	require.Error(t, err)
}

func TestAddMobAndObject(t *testing.T) {
	idx := NewIndex()
	idx.AddMob(100, "a test mob")
	idx.AddObject(200, "a test object")
	assert.True(t, idx.MobExists(100))
	assert.True(t, idx.ObjExists(200))
}
