package cli

import (
	"fmt"
	"time"

	"github.com/AntonioVentilii/vault-core/internal/vaultctl/client"
	"github.com/spf13/cobra"
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Create, resolve, or revoke share links",
}

var shareTTL string

var shareCreateCmd = &cobra.Command{
	Use:   "create <owner-hex>:<file-id-hex>",
	Short: "Create a share link for a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireConfigured(); err != nil {
			return err
		}
		fileID, err := parseFileID(args[0])
		if err != nil {
			return err
		}

		var ttlNs uint64
		if shareTTL != "" {
			d, err := time.ParseDuration(shareTTL)
			if err != nil {
				return fmt.Errorf("invalid --ttl: %w", err)
			}
			ttlNs = uint64(d.Nanoseconds())
		}

		var resp client.CreateShareLinkResponse
		req := client.CreateShareLinkRequest{Caller: cfg.PrincipalHex, FileID: fileID, TTLNs: ttlNs}
		if err := rpc.Directory(GetContext(), "/v1/create_share_link", req, &resp); err != nil {
			return fmt.Errorf("create_share_link: %w", err)
		}

		if jsonOutput {
			return printer.JSON(resp)
		}
		printer.Success("share link created")
		printer.KeyValue("Token", resp.LinkToken)
		return nil
	},
}

var shareResolveCmd = &cobra.Command{
	Use:   "resolve <link-token>",
	Short: "Resolve a share link to its file id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var fileID client.FileIDWire
		req := client.ResolveShareLinkRequest{LinkToken: args[0]}
		if err := rpc.Directory(GetContext(), "/v1/resolve_share_link", req, &fileID); err != nil {
			return fmt.Errorf("resolve_share_link: %w", err)
		}
		if jsonOutput {
			return printer.JSON(fileID)
		}
		printer.Success("resolved")
		printer.KeyValue("File ID", formatFileID(fileID))
		return nil
	},
}

var shareRevokeCmd = &cobra.Command{
	Use:   "revoke <link-token>",
	Short: "Revoke a share link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireConfigured(); err != nil {
			return err
		}
		req := client.RevokeShareLinkRequest{Caller: cfg.PrincipalHex, LinkToken: args[0]}
		if err := rpc.Directory(GetContext(), "/v1/revoke_share_link", req, nil); err != nil {
			return fmt.Errorf("revoke_share_link: %w", err)
		}
		printer.Success("share link revoked")
		return nil
	},
}

func init() {
	shareCreateCmd.Flags().StringVar(&shareTTL, "ttl", "", "Expiration as a duration (e.g. 24h); omit for no expiry")
	shareCmd.AddCommand(shareCreateCmd)
	shareCmd.AddCommand(shareResolveCmd)
	shareCmd.AddCommand(shareRevokeCmd)
}
