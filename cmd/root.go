package cmd

import (
	"fmt"
	"github.com/ValentinKolb/rStore/cmd/resources"
	"github.com/ValentinKolb/rStore/cmd/serve"
	"github.com/ValentinKolb/rStore/cmd/util"
	"github.com/spf13/cobra"
	"os"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "rstore",
		Short: "generic HTTP resource store",
		Long: fmt.Sprintf(`rStore (v%s)

A small HTTP resource store written in Go. Resources are appended with a
store-assigned id and listed in insertion order. The store is either kept
in memory or replicated with RAFT consensus.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of rStore",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("rStore v%s\n", Version)
		},
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(resources.ResourceCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "transport"
	RootCmd.PersistentFlags().String(key, "tcp", util.WrapString("transport to use (tcp, unix)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
