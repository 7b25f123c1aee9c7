package resources

import (
	"github.com/ValentinKolb/rStore/cmd/util"
	"github.com/ValentinKolb/rStore/lib/store"
	"github.com/ValentinKolb/rStore/rpc/client"
	"github.com/spf13/cobra"
)

var (
	resourceStore store.IStore[string]

	// ResourceCommands represents the resources command group
	ResourceCommands = &cobra.Command{
		Use:               "resources",
		Short:             "List, read and create resources on a rStore server",
		PersistentPreRunE: setupClient,
	}
)

func init() {
	// Add connection flags to the resources command
	util.SetupClientFlags(ResourceCommands)

	// Add subcommands
	ResourceCommands.AddCommand(listCmd)
	ResourceCommands.AddCommand(getCmd)
	ResourceCommands.AddCommand(createCmd)
	ResourceCommands.AddCommand(perfTestCmd)
}

// setupClient initializes the resource client
func setupClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	config := util.GetClientConfig()

	connector, err := util.GetClientConnector(config.Transport)
	if err != nil {
		return err
	}

	resourceStore, err = client.NewResourceClient[string](config, connector)
	return err
}
