package cli

import (
	"fmt"

	"github.com/AntonioVentilii/vault-core/internal/vaultctl/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage vaultctl's local configuration",
}

var (
	initDirectoryURL string
	initPrincipalHex string
	initAuthSecret   string
)

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write vaultctl's configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		if initDirectoryURL != "" {
			loaded.DirectoryURL = initDirectoryURL
		}
		if initPrincipalHex != "" {
			loaded.PrincipalHex = initPrincipalHex
		}
		if initAuthSecret != "" {
			loaded.AuthSecret = initAuthSecret
		}
		if err := loaded.Save(); err != nil {
			return err
		}
		path, _ := config.Path()
		fmt.Printf("wrote %s\n", path)
		return nil
	},
}

var configBucketURLCmd = &cobra.Command{
	Use:   "bucket-url <bucket-hex> <base-url>",
	Short: "Record a bucket's base URL for direct chunk upload/download",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		if err := loaded.SetBucketURL(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("registered bucket %s -> %s\n", args[0], args[1])
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		fmt.Printf("directory_url: %s\n", loaded.DirectoryURL)
		fmt.Printf("principal_hex: %s\n", loaded.PrincipalHex)
		for hex, url := range loaded.BucketURLs {
			fmt.Printf("bucket %s -> %s\n", hex, url)
		}
		return nil
	},
}

func init() {
	configInitCmd.Flags().StringVar(&initDirectoryURL, "directory-url", "", "Directory service base URL")
	configInitCmd.Flags().StringVar(&initPrincipalHex, "principal", "", "Hex-encoded caller principal")
	configInitCmd.Flags().StringVar(&initAuthSecret, "auth-secret", "", "Shared auth secret, if this deployment requires one out of band")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configBucketURLCmd)
	configCmd.AddCommand(configShowCmd)
}
