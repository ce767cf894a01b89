package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamlog/broker/internal/storage/metastore"
)

func newTestRegistry(t *testing.T) (*Registry, *metastore.Store) {
	t.Helper()
	store, err := metastore.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		//nolint:errcheck // Best-effort cleanup
		_ = store.Close()
	})
	return NewRegistry(store), store
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry, _ := newTestRegistry(t)

	definition := []byte(`{"type": "object", "required": ["id"]}`)
	require.NoError(t, registry.Register("events", definition))

	got, err := registry.Get("events")
	require.NoError(t, err)
	assert.JSONEq(t, string(definition), string(got))
}

func TestRegistry_RegisterOnExistingTopic(t *testing.T) {
	registry, store := newTestRegistry(t)

	require.NoError(t, store.CreateTopic(&metastore.TopicConfig{Name: "events"}))
	require.NoError(t, registry.Register("events", []byte(`{"type": "object"}`)))

	config, err := store.GetTopic("events")
	require.NoError(t, err)
	require.NotNil(t, config.Schema)
	assert.Equal(t, "jsonschema", config.Schema.Type)
}

func TestRegistry_RegisterInvalidSchema(t *testing.T) {
	registry, _ := newTestRegistry(t)

	err := registry.Register("events", []byte(`{"type": "bogus"}`))
	assert.IsType(t, InvalidSchemaError{}, err)

	err = registry.Register("events", nil)
	assert.IsType(t, InvalidSchemaError{}, err)
}

func TestRegistry_GetMissing(t *testing.T) {
	registry, store := newTestRegistry(t)

	// Unknown topic
	_, err := registry.Get("nope")
	assert.IsType(t, SchemaNotFoundError{}, err)

	// Known topic without a schema
	require.NoError(t, store.CreateTopic(&metastore.TopicConfig{Name: "events"}))
	_, err = registry.Get("events")
	assert.IsType(t, SchemaNotFoundError{}, err)
}

func TestRegistry_ValidatePayload(t *testing.T) {
	registry, _ := newTestRegistry(t)

	definition := []byte(`{
		"type": "object",
		"properties": {"id": {"type": "number"}},
		"required": ["id"]
	}`)
	require.NoError(t, registry.Register("events", definition))

	assert.NoError(t, registry.ValidatePayload("events", []byte(`{"id": 7}`)))

	err := registry.ValidatePayload("events", []byte(`{"id": "seven"}`))
	require.Error(t, err)
	violation, ok := err.(SchemaValidationError)
	require.True(t, ok)
	assert.Equal(t, "events", violation.Topic)
}

func TestRegistry_ValidatePayloadWithoutSchema(t *testing.T) {
	registry, _ := newTestRegistry(t)

	// Topics without a schema accept anything, JSON or not
	assert.NoError(t, registry.ValidatePayload("events", []byte("not json at all")))
}
