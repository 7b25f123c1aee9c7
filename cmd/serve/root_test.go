package serve

import (
	"context"
	"testing"

	"github.com/ValentinKolb/rStore/lib/db"
	"github.com/ValentinKolb/rStore/lib/serializer"
	"github.com/ValentinKolb/rStore/rpc/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLocalStoreAndSeed(t *testing.T) {
	config := common.ServerConfig{
		StoreType: common.StoreTypeLocal,
		Seed:      []string{"Resource 1", "Resource 2"},
	}

	s, closeStore, err := createStore(config, serializer.NewJSONSerializer())
	require.NoError(t, err)
	defer closeStore()

	require.NoError(t, seed(context.Background(), config, s))

	records, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []db.Record[string]{
		{ID: 1, Data: "Resource 1"},
		{ID: 2, Data: "Resource 2"},
	}, records)
}

func TestSeedDisabled(t *testing.T) {
	config := common.ServerConfig{StoreType: common.StoreTypeLocal}

	s, closeStore, err := createStore(config, serializer.NewJSONSerializer())
	require.NoError(t, err)
	defer closeStore()

	require.NoError(t, seed(context.Background(), config, s))

	records, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}
