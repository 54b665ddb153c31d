package cli

import (
	"fmt"

	"github.com/AntonioVentilii/vault-core/internal/vaultctl/client"
	"github.com/spf13/cobra"
)

var aclCmd = &cobra.Command{
	Use:   "acl",
	Short: "Grant or revoke reader/writer access to a file",
}

var aclAddCmd = &cobra.Command{
	Use:   "add <owner-hex>:<file-id-hex> <grantee-hex> <reader|writer>",
	Args:  cobra.ExactArgs(3),
	RunE:  aclRun("/v1/add_file_access"),
}

var aclRemoveCmd = &cobra.Command{
	Use:   "remove <owner-hex>:<file-id-hex> <grantee-hex> <reader|writer>",
	Args:  cobra.ExactArgs(3),
	RunE:  aclRun("/v1/remove_file_access"),
}

func aclRun(path string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := requireConfigured(); err != nil {
			return err
		}
		fileID, err := parseFileID(args[0])
		if err != nil {
			return err
		}
		req := client.FileAccessRequest{
			Caller:  cfg.PrincipalHex,
			FileID:  fileID,
			Grantee: args[1],
			Role:    args[2],
		}
		if err := rpc.Directory(GetContext(), path, req, nil); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		printer.Success("ok")
		return nil
	}
}

func init() {
	aclCmd.AddCommand(aclAddCmd)
	aclCmd.AddCommand(aclRemoveCmd)
}
