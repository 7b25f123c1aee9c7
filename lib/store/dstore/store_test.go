package dstore

import (
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/ValentinKolb/rStore/lib/db"
	"github.com/ValentinKolb/rStore/lib/db/engines/ledger"
	"github.com/ValentinKolb/rStore/lib/serializer"
	"github.com/ValentinKolb/rStore/lib/store"
	"github.com/lni/dragonboat/v4"
	"github.com/lni/dragonboat/v4/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testShardID = 1

func freeRaftAddress(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

// newSingleReplicaStore starts a one node raft shard and waits until it has elected itself leader.
func newSingleReplicaStore(t *testing.T) store.IStore[string] {
	t.Helper()

	dir := t.TempDir()
	addr := freeRaftAddress(t)

	nh, err := dragonboat.NewNodeHost(config.NodeHostConfig{
		WALDir:         dir,
		NodeHostDir:    dir,
		RTTMillisecond: 10,
		RaftAddress:    addr,
	})
	require.NoError(t, err)
	t.Cleanup(nh.Close)

	s := serializer.NewJSONSerializer()
	factory := CreateStateMaschineFactory[string](func() db.RecordDB[string] {
		return ledger.NewLedgerDB[string](nil)
	}, s)

	err = nh.StartConcurrentReplica(map[uint64]string{1: addr}, false, factory, config.Config{
		ReplicaID:    1,
		ShardID:      testShardID,
		ElectionRTT:  10,
		HeartbeatRTT: 1,
		CheckQuorum:  true,
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, _, valid, err := nh.GetLeaderID(testShardID)
		return err == nil && valid
	}, 10*time.Second, 20*time.Millisecond, "no leader elected")

	return NewDistributedStore[string](nh, testShardID, 5*time.Second, s)
}

func TestDistributedStoreSeedAndConcurrentAppend(t *testing.T) {
	if testing.Short() {
		t.Skip("starts a raft node")
	}
	s := newSingleReplicaStore(t)

	require.NoError(t, store.Seed(s, "Resource 1", "Resource 2"))

	const n = 100
	ids := make([]uint64, n)
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec, err := s.Append(fmt.Sprintf("payload-%d", i))
			if err != nil {
				errs <- err
				return
			}
			ids[i] = rec.ID
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	seen := make(map[uint64]int, n)
	for i, id := range ids {
		assert.GreaterOrEqual(t, id, uint64(3))
		assert.LessOrEqual(t, id, uint64(n+2))
		prev, dup := seen[id]
		assert.False(t, dup, "id %d assigned to payload-%d and payload-%d", id, prev, i)
		seen[id] = i
	}

	records, err := s.List()
	require.NoError(t, err)
	require.Len(t, records, n+2)
	assert.Equal(t, db.Record[string]{ID: 1, Data: "Resource 1"}, records[0])
	assert.Equal(t, db.Record[string]{ID: 2, Data: "Resource 2"}, records[1])
	for i, rec := range records {
		assert.Equal(t, uint64(i+1), rec.ID)
	}
	for id, i := range seen {
		assert.Equal(t, fmt.Sprintf("payload-%d", i), records[id-1].Data)
	}
}

func TestDistributedStoreGetAndInfo(t *testing.T) {
	if testing.Short() {
		t.Skip("starts a raft node")
	}
	s := newSingleReplicaStore(t)

	rec, err := s.Append("Resource 1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), rec.ID)

	got, ok, err := s.Get(1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, db.Record[string]{ID: 1, Data: "Resource 1"}, got)

	_, ok, err = s.Get(42)
	require.NoError(t, err)
	assert.False(t, ok)

	records, err := s.List()
	require.NoError(t, err)
	assert.Len(t, records, 1)

	info, err := s.GetDBInfo()
	require.NoError(t, err)
	assert.Equal(t, 1, info.Records)
	assert.Equal(t, uint64(1), info.LastID)
}
