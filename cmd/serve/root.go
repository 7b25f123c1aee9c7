package serve

import (
	"context"
	"fmt"
	cmdUtil "github.com/ValentinKolb/rStore/cmd/util"
	"github.com/ValentinKolb/rStore/lib/db"
	"github.com/ValentinKolb/rStore/lib/db/engines/ledger"
	"github.com/ValentinKolb/rStore/lib/serializer"
	"github.com/ValentinKolb/rStore/lib/store"
	"github.com/ValentinKolb/rStore/lib/store/dstore"
	"github.com/ValentinKolb/rStore/lib/store/lstore"
	"github.com/ValentinKolb/rStore/rpc/common"
	"github.com/ValentinKolb/rStore/rpc/server"
	"github.com/lni/dragonboat/v4"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var (
	log            = logger.GetLogger("rpc")
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the rStore server",
		Long:    `Start the rStore server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is RSTORE_<flag> (e.g. RSTORE_MAX_BODY_KB=64)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

const (
	// how long to wait for the raft shard to elect a leader before seeding
	shardReadyTimeout = 60 * time.Second
)

func init() {
	// add flags
	key := "store"
	ServeCmd.PersistentFlags().String(key, "lstore", cmdUtil.WrapString("The store backing the resources: lstore (in-memory, single process) or dstore (replicated with raft)"))

	key = "shard-id"
	ServeCmd.PersistentFlags().Uint64(key, 100, cmdUtil.WrapString("(dstore) ID of the raft shard holding the resources"))

	key = "serializer"
	ServeCmd.PersistentFlags().String(key, "json", cmdUtil.WrapString("Encoding of payloads in raft entries and snapshots (json, gob)"))

	key = "seed"
	ServeCmd.PersistentFlags().Bool(key, true, cmdUtil.WrapString("Whether to append the seed payloads before the server starts listening. With dstore the seed is only applied to an empty store, enable it on a single replica"))

	key = "seed-payloads"
	ServeCmd.PersistentFlags().StringSlice(key, []string{"Resource 1", "Resource 2"}, cmdUtil.WrapString("Comma-separated list of seed payloads"))

	key = "max-body-kb"
	ServeCmd.PersistentFlags().Int64(key, 1024, cmdUtil.WrapString("Maximum size of a create request body in KB"))

	key = "rtt-millisecond"
	ServeCmd.PersistentFlags().Int(key, 100, cmdUtil.WrapString("(dstore) RTTMillisecond defines the average Round Trip Time (RTT) in milliseconds between two NodeHost instances. Other raft configuration parameters (ElectionRTT, HeartbeatRTT) are derived from this value"))

	key = "snapshot-entries"
	ServeCmd.PersistentFlags().Int(key, 1000, cmdUtil.WrapString("(dstore) SnapshotEntries defines how often the state machine should be snapshotted automatically. It is defined in terms of the number of applied Raft log entries. SnapshotEntries can be set to 0 to disable such automatic snapshotting (not recommended)"))

	key = "compaction-overhead"
	ServeCmd.PersistentFlags().Int(key, 500, cmdUtil.WrapString("(dstore) CompactionOverhead defines the number of log entries to keep after compaction. Recommended value is about 1/2 of SnapshotEntries"))

	key = "data-dir"
	ServeCmd.PersistentFlags().String(key, "data", cmdUtil.WrapString("(dstore) DataDir is the directory used for storing the raft log and snapshots"))

	key = "replica-id"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("(dstore) ReplicaID is the unique name of this NodeHost instance (e.g. 'node-1')"))

	key = "cluster-members"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("(dstore) ClusterMembers is a comma-separated list of NodeHost addresses in the format 'node-1=localhost:63001,node-2=localhost:63002,...'"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 5, cmdUtil.WrapString("(dstore) Timeout of raft operations in seconds"))

	key = "endpoint"
	ServeCmd.PersistentFlags().String(key, "127.0.0.1:8080", cmdUtil.WrapString("The address on which the API will listen (e.g. 127.0.0.1:8080 for tcp, /tmp/rstore.sock for unix)"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	storeType, err := common.ParseStoreType(viper.GetString("store"))
	if err != nil {
		return err
	}
	serveCmdConfig.StoreType = storeType

	// read the configuration from the command line flags and environment variables
	serveCmdConfig.ShardID = viper.GetUint64("shard-id")
	serveCmdConfig.RTTMillisecond = viper.GetUint64("rtt-millisecond")
	serveCmdConfig.SnapshotEntries = viper.GetUint64("snapshot-entries")
	serveCmdConfig.CompactionOverhead = viper.GetUint64("compaction-overhead")
	serveCmdConfig.DataDir = viper.GetString("data-dir")
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.Transport = viper.GetString("transport")
	serveCmdConfig.MaxBodyBytes = viper.GetInt64("max-body-kb") * 1024
	serveCmdConfig.Serializer = viper.GetString("serializer")
	serveCmdConfig.LogLevel = viper.GetString("log-level")

	serveCmdConfig.Seed = nil
	if viper.GetBool("seed") {
		serveCmdConfig.Seed = viper.GetStringSlice("seed-payloads")
	}

	if serveCmdConfig.MaxBodyBytes <= 0 {
		return fmt.Errorf("max-body-kb must be positive")
	}

	if storeType != common.StoreTypeDistributed {
		return nil
	}

	// the remaining options are only required in cluster mode
	id := viper.GetString("replica-id")
	if id == "" {
		return fmt.Errorf("replica-id is required for dstore")
	}
	serveCmdConfig.ReplicaID = cmdUtil.HashString(id)

	members, err := cmdUtil.ParseClusterMembers(viper.GetString("cluster-members"))
	if err != nil {
		return fmt.Errorf("cluster-members is required for dstore: %w", err)
	}
	serveCmdConfig.ClusterMembers = members

	// test if the replica id is in the cluster members
	if _, ok := serveCmdConfig.ClusterMembers[serveCmdConfig.ReplicaID]; !ok {
		return fmt.Errorf("no address found for replica %s in cluster members", id)
	}

	return nil
}

// run starts the rStore server
func run(_ *cobra.Command, _ []string) error {
	config := *serveCmdConfig

	if err := common.InitLoggers(config.LogLevel); err != nil {
		return err
	}

	s, err := serializer.ByName(config.Serializer)
	if err != nil {
		return err
	}

	connector, err := cmdUtil.GetServerConnector(config.Transport)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resources, closeStore, err := createStore(config, s)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := seed(ctx, config, resources); err != nil {
		return err
	}

	log.Infof("rStore setup completed successfully")
	log.Infof("%s", config.String())

	return server.NewServer[string](config, resources, connector).Serve(ctx)
}

// createStore builds the configured store. The returned function releases its resources.
func createStore(config common.ServerConfig, s serializer.ISerializer) (store.IStore[string], func(), error) {
	// Function to create a new database instance
	dbFactory := func() db.RecordDB[string] {
		return ledger.NewLedgerDB[string](&ledger.DBOptions{Serializer: s})
	}

	if config.StoreType == common.StoreTypeLocal {
		log.Infof("created local store")
		return lstore.NewLocalStore[string](dbFactory), func() {}, nil
	}

	nodeHost, err := dragonboat.NewNodeHost(config.ToNodeHostConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create node host: %w", err)
	}

	// Start Raft for the shard
	if err := nodeHost.StartConcurrentReplica(
		config.ClusterMembers,
		false,
		dstore.CreateStateMaschineFactory[string](dbFactory, s),
		config.ToDragonboatConfig(),
	); err != nil {
		nodeHost.Close()
		return nil, nil, fmt.Errorf("failed to start shard %d: %w", config.ShardID, err)
	}
	log.Infof("started replica for shard %d", config.ShardID)

	timeout := time.Duration(config.TimeoutSecond) * time.Second
	return dstore.NewDistributedStore[string](nodeHost, config.ShardID, timeout, s), nodeHost.Close, nil
}

// seed appends the seed payloads before the server starts listening.
// A replicated store is only seeded when it is still empty.
func seed(ctx context.Context, config common.ServerConfig, s store.IStore[string]) error {
	if len(config.Seed) == 0 {
		return nil
	}

	if config.StoreType == common.StoreTypeDistributed {
		records, err := waitForShard(ctx, s)
		if err != nil {
			return err
		}
		if len(records) > 0 {
			log.Infof("store already contains %d records, skipping seed", len(records))
			return nil
		}
	}

	if err := store.Seed(s, config.Seed...); err != nil {
		return fmt.Errorf("failed to seed store: %w", err)
	}
	log.Infof("seeded store with %d records", len(config.Seed))
	return nil
}

// waitForShard polls the store until a linearizable read succeeds (i.e. a leader was elected)
func waitForShard(ctx context.Context, s store.IStore[string]) ([]db.Record[string], error) {
	deadline := time.Now().Add(shardReadyTimeout)
	for {
		records, err := s.List()
		if err == nil {
			return records, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("shard not ready after %s: %w", shardReadyTimeout, err)
		}
		log.Infof("waiting for shard to become ready: %v", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Second):
		}
	}
}
