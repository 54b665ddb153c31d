package cli

import (
	"fmt"
	"strconv"

	"github.com/AntonioVentilii/vault-core/internal/vaultctl/client"
	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative operations requiring a Directory admin principal",
}

var adminProvisionBucketCmd = &cobra.Command{
	Use:   "provision-bucket <bucket-hex> <base-url> <soft-limit-bytes> <hard-limit-bytes>",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireConfigured(); err != nil {
			return err
		}
		soft, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid soft limit: %w", err)
		}
		hard, err := strconv.ParseUint(args[3], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid hard limit: %w", err)
		}
		req := client.ProvisionBucketRequest{
			Caller:         cfg.PrincipalHex,
			BucketID:       args[0],
			BaseURL:        args[1],
			SoftLimitBytes: soft,
			HardLimitBytes: hard,
		}
		if err := rpc.Directory(GetContext(), "/v1/provision_bucket", req, nil); err != nil {
			return fmt.Errorf("provision_bucket: %w", err)
		}
		printer.Success("bucket provisioned")
		return nil
	},
}

var adminSetWritableCmd = &cobra.Command{
	Use:   "set-writable <bucket-hex> <true|false>",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireConfigured(); err != nil {
			return err
		}
		writable, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("invalid writable flag: %w", err)
		}
		req := client.AdminSetBucketWritableRequest{Caller: cfg.PrincipalHex, BucketID: args[0], Writable: writable}
		if err := rpc.Directory(GetContext(), "/v1/admin_set_bucket_writable", req, nil); err != nil {
			return fmt.Errorf("admin_set_bucket_writable: %w", err)
		}
		printer.Success("ok")
		return nil
	},
}

var adminSetQuotaCmd = &cobra.Command{
	Use:   "set-quota <target-hex> <quota-bytes>",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireConfigured(); err != nil {
			return err
		}
		quota, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid quota: %w", err)
		}
		req := client.AdminSetQuotaRequest{Caller: cfg.PrincipalHex, Target: args[0], QuotaBytes: quota}
		if err := rpc.Directory(GetContext(), "/v1/admin_set_quota", req, nil); err != nil {
			return fmt.Errorf("admin_set_quota: %w", err)
		}
		printer.Success("ok")
		return nil
	},
}

func init() {
	adminCmd.AddCommand(adminProvisionBucketCmd)
	adminCmd.AddCommand(adminSetWritableCmd)
	adminCmd.AddCommand(adminSetQuotaCmd)
}
