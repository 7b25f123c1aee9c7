package resources

import (
	"encoding/json"
	"fmt"
	"github.com/spf13/cobra"
	"os"
	"strconv"
)

var (
	listCmd = &cobra.Command{
		Use:   "list",
		Short: "Lists all resources in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := resourceStore.List()
			if err != nil {
				return err
			}
			return printJSON(records)
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [id]",
		Short: "Reads a single resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || id == 0 {
				return fmt.Errorf("id must be a positive integer: %s", args[0])
			}
			record, ok, err := resourceStore.Get(id)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("resource %d not found", id)
			}
			return printJSON(record)
		},
	}
	createCmd = &cobra.Command{
		Use:   "create [payload]",
		Short: "Creates a new resource with the given payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := resourceStore.Append(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("created resource %d\n", record.ID)
			return nil
		},
	}
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
