// Package cli implements vaultctl's cobra command tree: a terminal client
// for the Directory and Bucket RPC surfaces.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AntonioVentilii/vault-core/internal/vaultctl/client"
	"github.com/AntonioVentilii/vault-core/internal/vaultctl/config"
	"github.com/AntonioVentilii/vault-core/internal/vaultctl/output"
	"github.com/spf13/cobra"
)

// ErrNotConfigured is returned when a command needing a principal is run
// before `vaultctl config init`.
var ErrNotConfigured = errors.New("not configured")

var (
	jsonOutput bool
	quietMode  bool
	cfg        *config.Config
	rpc        *client.Client
	printer    *output.Printer

	rootCtx    context.Context
	rootCancel context.CancelFunc
)

var rootCmd = &cobra.Command{
	Use:   "vaultctl",
	Short: "vaultctl - upload, share, and administer files in a vault-core deployment",
	Long: `vaultctl is the command-line client for a vault-core Directory and its
Bucket services.

Get started:
  vaultctl config init --principal <hex> --directory-url http://localhost:8080
  vaultctl upload ./photo.jpg
  vaultctl share create <owner-hex>:<file-id-hex>`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		rootCtx, rootCancel = context.WithCancel(context.Background())

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			rootCancel()
		}()

		if cmd.Name() == "help" || cmd.Name() == "init" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		printer = output.New(
			output.WithJSON(jsonOutput),
			output.WithQuiet(quietMode),
		)
		rpc = client.New(cfg.DirectoryURL)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if rootCancel != nil {
			rootCancel()
		}
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON (for scripting)")
	rootCmd.PersistentFlags().BoolVar(&quietMode, "quiet", false, "Suppress non-error output")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(aclCmd)
	rootCmd.AddCommand(adminCmd)
}

func requireConfigured() error {
	if !cfg.IsConfigured() {
		return fmt.Errorf("%w: run 'vaultctl config init' first", ErrNotConfigured)
	}
	return nil
}

// GetContext returns the root context, cancelled when the user presses
// Ctrl+C.
func GetContext() context.Context {
	if rootCtx == nil {
		return context.Background()
	}
	return rootCtx
}
