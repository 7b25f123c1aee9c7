package util

import (
	"fmt"
	"github.com/ValentinKolb/rStore/rpc/common"
	"github.com/ValentinKolb/rStore/rpc/transport"
	"github.com/ValentinKolb/rStore/rpc/transport/tcp"
	"github.com/ValentinKolb/rStore/rpc/transport/unix"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"strings"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50

	// EnvPrefix is the prefix of all environment variables (RSTORE_<FLAG>)
	EnvPrefix = "rstore"
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+len(word) > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += len(word)
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// --------------------------------------------------------------------------
// Configuration
// --------------------------------------------------------------------------

// InitConfig loads .env files and configures viper to read RSTORE_* environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// SetupClientFlags adds the connection flags of the resource client to a command
func SetupClientFlags(cmd *cobra.Command) {
	key := "timeout"
	cmd.PersistentFlags().Int(key, 10, WrapString("The timeout in seconds of the client"))

	key = "endpoints"
	cmd.PersistentFlags().String(key, "127.0.0.1:8080", WrapString("The address of the rStore server (host:port or socket path). Multiple endpoints can be specified as a comma-separated list, requests are distributed round-robin"))

	key = "retries"
	cmd.PersistentFlags().Int(key, 3, WrapString("How many times to retry a request on another endpoint"))
}

// GetClientConfig reads client configuration from viper
func GetClientConfig() common.ClientConfig {
	var endpoints []string
	for _, e := range strings.Split(viper.GetString("endpoints"), ",") {
		if e = strings.TrimSpace(e); e != "" {
			endpoints = append(endpoints, e)
		}
	}

	return common.ClientConfig{
		Endpoints:     endpoints,
		TimeoutSecond: viper.GetInt("timeout"),
		RetryCount:    viper.GetInt("retries"),
		Transport:     viper.GetString("transport"),
	}
}

// --------------------------------------------------------------------------
// Transport
// --------------------------------------------------------------------------

// GetServerConnector creates the server side of the named transport
func GetServerConnector(name string) (transport.IServerConnector, error) {
	switch name {
	case "tcp":
		return tcp.NewTCPServerConnector(), nil
	case "unix":
		return unix.NewUnixServerConnector(), nil
	default:
		return nil, fmt.Errorf("invalid transport %s (expected one of: tcp, unix)", name)
	}
}

// GetClientConnector creates the client side of the named transport
func GetClientConnector(name string) (transport.IClientConnector, error) {
	switch name {
	case "tcp":
		return tcp.NewTCPClientConnector(), nil
	case "unix":
		return unix.NewUnixClientConnector(), nil
	default:
		return nil, fmt.Errorf("invalid transport %s (expected one of: tcp, unix)", name)
	}
}

// --------------------------------------------------------------------------
// Cluster helpers
// --------------------------------------------------------------------------

// HashString maps a replica name (e.g. 'node-1') to a raft replica id using FNV-1a.
// Dragonboat reserves 0, so a zero hash is mapped to 1.
func HashString(s string) uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)

	hash := uint64(offset64)
	for i := 0; i < len(s); i++ {
		hash ^= uint64(s[i])
		hash *= prime64
	}
	if hash == 0 {
		return 1
	}
	return hash
}

// ParseClusterMembers parses 'node-1=host:port,node-2=host:port' into a replica id to address map
func ParseClusterMembers(s string) (map[uint64]string, error) {
	members := make(map[uint64]string)
	for _, member := range strings.Split(s, ",") {
		member = strings.TrimSpace(member)
		if member == "" {
			continue
		}
		name, addr, ok := strings.Cut(member, "=")
		if !ok || name == "" || addr == "" {
			return nil, fmt.Errorf("invalid cluster member format: %s (expected NAME=address)", member)
		}
		id := HashString(name)
		if _, dup := members[id]; dup {
			return nil, fmt.Errorf("duplicate cluster member: %s", name)
		}
		members[id] = addr
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("no cluster members given")
	}
	return members, nil
}
