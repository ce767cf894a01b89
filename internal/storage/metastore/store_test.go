package metastore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		//nolint:errcheck // Best-effort cleanup
		_ = store.Close()
	})
	return store
}

func TestStore_CreateAndGetTopic(t *testing.T) {
	store := openTestStore(t)

	err := store.CreateTopic(&TopicConfig{Name: "events"})
	require.NoError(t, err)

	config, err := store.GetTopic("events")
	require.NoError(t, err)
	assert.Equal(t, "events", config.Name)
	assert.Equal(t, 1, config.Partitions)
	assert.False(t, config.CreatedAt.IsZero())
}

func TestStore_CreateDuplicateTopic(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.CreateTopic(&TopicConfig{Name: "events"}))

	err := store.CreateTopic(&TopicConfig{Name: "events"})
	assert.IsType(t, TopicExistsError{}, err)
}

func TestStore_GetMissingTopic(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetTopic("nope")
	assert.IsType(t, TopicNotFoundError{}, err)
}

func TestStore_CreateInvalidTopic(t *testing.T) {
	store := openTestStore(t)

	err := store.CreateTopic(&TopicConfig{Name: ""})
	assert.IsType(t, InvalidConfigError{}, err)
}

func TestStore_UpdateTopic(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.CreateTopic(&TopicConfig{Name: "events"}))

	err := store.UpdateTopic("events", func(config *TopicConfig) error {
		config.Schema = &SchemaRef{Type: "jsonschema", Definition: []byte(`{"type":"object"}`)}
		return nil
	})
	require.NoError(t, err)

	config, err := store.GetTopic("events")
	require.NoError(t, err)
	require.NotNil(t, config.Schema)
	assert.Equal(t, "jsonschema", config.Schema.Type)
	assert.JSONEq(t, `{"type":"object"}`, string(config.Schema.Definition))
}

func TestStore_UpdateMissingTopic(t *testing.T) {
	store := openTestStore(t)

	err := store.UpdateTopic("nope", func(config *TopicConfig) error { return nil })
	assert.IsType(t, TopicNotFoundError{}, err)
}

func TestStore_DeleteTopic(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.CreateTopic(&TopicConfig{Name: "events"}))
	require.NoError(t, store.DeleteTopic("events"))

	_, err := store.GetTopic("events")
	assert.IsType(t, TopicNotFoundError{}, err)

	err = store.DeleteTopic("events")
	assert.IsType(t, TopicNotFoundError{}, err)
}

func TestStore_ListTopics(t *testing.T) {
	store := openTestStore(t)

	names, err := store.ListTopics()
	require.NoError(t, err)
	assert.Empty(t, names)

	for _, name := range []string{"orders", "events", "audit"} {
		require.NoError(t, store.CreateTopic(&TopicConfig{Name: name}))
	}

	names, err = store.ListTopics()
	require.NoError(t, err)
	assert.Equal(t, []string{"audit", "events", "orders"}, names)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := Open(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.CreateTopic(&TopicConfig{Name: "events"}))
	require.NoError(t, store.Close())

	reopened, err := Open(tmpDir)
	require.NoError(t, err)
	defer reopened.Close()

	config, err := reopened.GetTopic("events")
	require.NoError(t, err)
	assert.Equal(t, "events", config.Name)
}
