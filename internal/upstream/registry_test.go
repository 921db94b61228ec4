package upstream_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aircast/aircast/internal/upstream"
)

func TestRegistry_UnknownFeed(t *testing.T) {
	registry := upstream.NewRegistry()
	assert.Nil(t, registry.GetHealth("unknown"))
	assert.Empty(t, registry.GetAllHealth())
}

func TestRegistry_RecordsOutcomes(t *testing.T) {
	registry := upstream.NewRegistry()
	registry.Register("feed", upstream.NewClient(upstream.DefaultClientConfig("feed")))

	registry.RecordSuccess("feed")
	health := registry.GetHealth("feed")
	require.NotNil(t, health)
	assert.NotNil(t, health.LastSuccessAt)
	assert.Empty(t, health.LastError)

	registry.RecordFailure("feed", errors.New("timeout"))
	health = registry.GetHealth("feed")
	require.NotNil(t, health)
	assert.NotNil(t, health.LastFailureAt)
	assert.Equal(t, "timeout", health.LastError)

	all := registry.GetAllHealth()
	require.Len(t, all, 1)
	assert.Equal(t, "feed", all[0].Name)
}
