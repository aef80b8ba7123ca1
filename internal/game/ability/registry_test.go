package ability

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(zap.NewNop())
}

func TestAddAndLookup(t *testing.T) {
	reg := newTestRegistry(t)
	require.NoError(t, reg.Add(New(1, "fireball", TypeSpell)))
	require.NoError(t, reg.Add(New(2, "sneak", TypeSkill)))

	ab, ok := reg.GetByID(1)
	require.True(t, ok)
	assert.Equal(t, "fireball", ab.Name)

	_, ok = reg.GetByID(99)
	assert.False(t, ok)
	assert.Equal(t, 2, reg.Count())
}

func TestGetByNameCaseInsensitive(t *testing.T) {
	reg := newTestRegistry(t)
	require.NoError(t, reg.Add(New(1, "Fireball", TypeSpell)))

	upper, ok := reg.GetByName("FIREBALL")
	require.True(t, ok)
	lower, ok2 := reg.GetByName("fireball")
	require.True(t, ok2)
	assert.Same(t, upper, lower)
}

func TestAddRejectsDuplicateID(t *testing.T) {
	reg := newTestRegistry(t)
	require.NoError(t, reg.Add(New(1, "fireball", TypeSpell)))
	err := reg.Add(New(1, "imposter", TypeSpell))
	require.Error(t, err)
	assert.Equal(t, 1, reg.Count())
}

func TestAddRejectsNonPositiveID(t *testing.T) {
	reg := newTestRegistry(t)
	require.Error(t, reg.Add(New(0, "zero", TypeSpell)))
	require.Error(t, reg.Add(New(-3, "negative", TypeSpell)))
}

func TestNextIDSmallestUnused(t *testing.T) {
	reg := newTestRegistry(t)
	assert.Equal(t, 1, reg.NextID())

	require.NoError(t, reg.Add(New(1, "one", TypeSpell)))
	require.NoError(t, reg.Add(New(2, "two", TypeSpell)))
	require.NoError(t, reg.Add(New(3, "three", TypeSpell)))
	assert.Equal(t, 4, reg.NextID())

	// A gap is reused before extending the range.
	require.NoError(t, reg.Remove(2))
	assert.Equal(t, 2, reg.NextID())
}

func TestRemove(t *testing.T) {
	reg := newTestRegistry(t)
	require.NoError(t, reg.Add(New(1, "fireball", TypeSpell)))
	require.NoError(t, reg.Remove(1))
	assert.Equal(t, 0, reg.Count())
	assert.ErrorIs(t, reg.Remove(1), ErrNotFound)
}

func TestReplace(t *testing.T) {
	reg := newTestRegistry(t)
	require.NoError(t, reg.Add(New(1, "fireball", TypeSpell)))

	updated := New(1, "meteor swarm", TypeSpell)
	require.NoError(t, reg.Replace(updated))

	ab, ok := reg.GetByID(1)
	require.True(t, ok)
	assert.Equal(t, "meteor swarm", ab.Name)

	assert.ErrorIs(t, reg.Replace(New(42, "ghost", TypeSpell)), ErrNotFound)
}

func TestAllPreservesInsertionOrder(t *testing.T) {
	reg := newTestRegistry(t)
	require.NoError(t, reg.Add(New(3, "c", TypeSpell)))
	require.NoError(t, reg.Add(New(1, "a", TypeSpell)))
	require.NoError(t, reg.Add(New(2, "b", TypeSkill)))

	ids := make([]int, 0, 3)
	for _, ab := range reg.All() {
		ids = append(ids, ab.ID)
	}
	assert.Equal(t, []int{3, 1, 2}, ids)
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abilities.abl")

	reg := newTestRegistry(t)
	fireball := New(1, "fireball", TypeSpell)
	fireball.Cost.SetFixed(15, 30, 3)
	fireball.Damage.SetDice(3, 6, 2)
	fireball.Violent = true
	fireball.Routines = fireball.Routines.Set(RoutineDamages)
	require.NoError(t, reg.Add(fireball))

	bash := New(2, "bash", TypeSkill)
	bash.Skill.StunChar[StunSuccess] = 2
	require.NoError(t, reg.Add(bash))

	count, err := reg.Save(path)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	loaded := newTestRegistry(t)
	require.NoError(t, loaded.Load(path))
	require.Equal(t, 2, loaded.Count())

	got, ok := loaded.GetByName("fireball")
	require.True(t, ok)
	assert.Equal(t, 15, got.Cost.Min)
	assert.True(t, got.Routines.Has(RoutineDamages))

	gotBash, ok := loaded.GetByID(2)
	require.True(t, ok)
	require.NotNil(t, gotBash.Skill)
	assert.Equal(t, 2, gotBash.Skill.StunChar[StunSuccess])
}

func TestSaveReportsWriteFailure(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("needs /dev/full")
	}

	reg := newTestRegistry(t)
	require.NoError(t, reg.Add(New(1, "fireball", TypeSpell)))

	// A full device must never be reported as a successful save.
	count, err := reg.Save("/dev/full")
	require.Error(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 1, reg.Count())
}

func TestLoadMissingFileFails(t *testing.T) {
	reg := newTestRegistry(t)
	err := reg.Load(filepath.Join(t.TempDir(), "absent.abl"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
