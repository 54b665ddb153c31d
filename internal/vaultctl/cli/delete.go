package cli

import (
	"fmt"

	"github.com/AntonioVentilii/vault-core/internal/vaultctl/client"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <owner-hex>:<file-id-hex>",
	Short: "Delete a file, freeing its quota and cascading to its bucket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireConfigured(); err != nil {
			return err
		}
		fileID, err := parseFileID(args[0])
		if err != nil {
			return err
		}
		req := client.DeleteFileRequest{Caller: cfg.PrincipalHex, FileID: fileID}
		if err := rpc.Directory(GetContext(), "/v1/delete_file", req, nil); err != nil {
			return fmt.Errorf("delete_file: %w", err)
		}
		printer.Success("deleted")
		return nil
	},
}
