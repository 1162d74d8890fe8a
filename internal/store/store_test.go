package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restprobe/restprobe/internal/models"
)

func memoryStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("", nil)
	require.NoError(t, err)
	return s
}

func sampleDef(name string, tags ...string) models.TestDefinition {
	return models.TestDefinition{
		Name:   name,
		Method: "GET",
		URL:    "https://api.example.com/" + name,
		Tags:   tags,
	}
}

func TestCreateAssignsMetadata(t *testing.T) {
	s := memoryStore(t)

	stored, err := s.Create(sampleDef("users"))
	require.NoError(t, err)

	assert.NotEmpty(t, stored.ID)
	assert.Equal(t, 1, stored.Version)
	assert.True(t, stored.Enabled)
	assert.False(t, stored.CreatedAt.IsZero())
	assert.Equal(t, stored.CreatedAt, stored.UpdatedAt)

	got, ok := s.Get(stored.ID)
	require.True(t, ok)
	assert.Equal(t, stored, got)
}

func TestCreateRejectsInvalidDefinition(t *testing.T) {
	s := memoryStore(t)

	_, err := s.Create(models.TestDefinition{Method: "GET"})
	require.Error(t, err)
	assert.Zero(t, s.Len())
}

func TestUpdateBumpsVersion(t *testing.T) {
	s := memoryStore(t)
	stored, err := s.Create(sampleDef("users"))
	require.NoError(t, err)

	updated := stored.TestDefinition
	updated.Description = "list all users"
	after, err := s.Update(stored.ID, updated)
	require.NoError(t, err)

	assert.Equal(t, 2, after.Version)
	assert.Equal(t, "list all users", after.Description)
	assert.Equal(t, stored.CreatedAt, after.CreatedAt)
	assert.False(t, after.UpdatedAt.Before(stored.UpdatedAt))

	_, err = s.Update("no-such-id", updated)
	require.Error(t, err)
}

func TestDelete(t *testing.T) {
	s := memoryStore(t)
	stored, err := s.Create(sampleDef("users"))
	require.NoError(t, err)

	existed, err := s.Delete(stored.ID)
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Zero(t, s.Len())

	existed, err = s.Delete(stored.ID)
	require.NoError(t, err)
	assert.False(t, existed, "deleting twice reports absence, not an error")
}

func TestListFilters(t *testing.T) {
	s := memoryStore(t)

	smoke, err := s.Create(sampleDef("health", "smoke"))
	require.NoError(t, err)
	_, err = s.Create(sampleDef("users", "regression"))
	require.NoError(t, err)
	disabled, err := s.Create(sampleDef("legacy", "smoke"))
	require.NoError(t, err)
	require.NoError(t, s.SetEnabled(disabled.ID, false))

	all := s.List(Filter{})
	assert.Len(t, all, 3)

	enabled := s.List(Filter{EnabledOnly: true})
	assert.Len(t, enabled, 2)

	tagged := s.List(Filter{Tags: []string{"smoke"}, EnabledOnly: true})
	require.Len(t, tagged, 1)
	assert.Equal(t, smoke.ID, tagged[0].ID)

	defs := s.Definitions(Filter{Tags: []string{"smoke"}, EnabledOnly: true})
	require.Len(t, defs, 1)
	assert.Equal(t, "health", defs[0].Name)
}

func TestListNewestFirst(t *testing.T) {
	s := memoryStore(t)

	for _, name := range []string{"first", "second", "third"} {
		_, err := s.Create(sampleDef(name))
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	listed := s.List(Filter{})
	require.Len(t, listed, 3)
	assert.Equal(t, "third", listed[0].Name)
	assert.Equal(t, "first", listed[2].Name)
}

func TestPersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tests.json")

	s, err := Open(path, nil)
	require.NoError(t, err)

	def := sampleDef("users", "smoke")
	def.Assertions = models.AssertionList{
		models.StatusCodeAssertion{Expected: 200},
		models.JSONPathAssertion{Path: "0.id"},
	}
	stored, err := s.Create(def)
	require.NoError(t, err)

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	require.Equal(t, 1, reopened.Len())

	got, ok := reopened.Get(stored.ID)
	require.True(t, ok)
	assert.Equal(t, stored.Name, got.Name)
	assert.Equal(t, stored.Version, got.Version)
	require.Len(t, got.Assertions, 2)
	assert.Equal(t, models.StatusCodeAssertion{Expected: 200}, got.Assertions[0])
	assert.Equal(t, models.JSONPathAssertion{Path: "0.id"}, got.Assertions[1])
}

func TestOpenMissingFile(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "absent.json"), nil)
	require.NoError(t, err)
	assert.Zero(t, s.Len())
}

func TestOpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Open(path, nil)
	require.Error(t, err)
}
