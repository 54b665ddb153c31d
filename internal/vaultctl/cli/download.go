package cli

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/AntonioVentilii/vault-core/internal/vaultctl/client"
	"github.com/spf13/cobra"
)

var downloadLinkToken string

var downloadCmd = &cobra.Command{
	Use:   "download <owner-hex>:<file-id-hex> <output-path>",
	Short: "Download a file by fetching every chunk from its bucket",
	Args:  cobra.ExactArgs(2),
	RunE:  runDownload,
}

func init() {
	downloadCmd.Flags().StringVar(&downloadLinkToken, "link", "", "Resolve via a share link token instead of the file id positional arg")
}

func runDownload(cmd *cobra.Command, args []string) error {
	ctx := GetContext()
	outPath := args[1]

	var plan client.DownloadPlanWire
	if downloadLinkToken != "" {
		req := client.GetDownloadPlanViaLinkRequest{LinkToken: downloadLinkToken}
		if err := rpc.Directory(ctx, "/v1/get_download_plan_via_link", req, &plan); err != nil {
			return fmt.Errorf("get_download_plan_via_link: %w", err)
		}
	} else {
		if err := requireConfigured(); err != nil {
			return err
		}
		fileID, err := parseFileID(args[0])
		if err != nil {
			return err
		}
		req := client.GetDownloadPlanRequest{Caller: cfg.PrincipalHex, FileID: fileID}
		if err := rpc.Directory(ctx, "/v1/get_download_plan", req, &plan); err != nil {
			return fmt.Errorf("get_download_plan: %w", err)
		}
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer func() { _ = out.Close() }()

	for chunkIndex := uint32(0); chunkIndex < plan.ChunkCount; chunkIndex++ {
		loc, ok := locationFor(plan, chunkIndex)
		if !ok {
			return fmt.Errorf("no bucket location for chunk %d", chunkIndex)
		}
		auth, ok := plan.AuthFor(loc.Bucket)
		if !ok {
			return fmt.Errorf("no auth token for bucket %s", loc.Bucket)
		}
		bucketURL, ok := cfg.BucketURL(loc.Bucket)
		if !ok {
			return fmt.Errorf("no known base URL for bucket %s; register one with 'vaultctl config bucket-url'", loc.Bucket)
		}

		var chunkResp client.GetChunkResponse
		getReq := client.GetChunkRequest{Token: auth.Token, ChunkIndex: chunkIndex}
		if err := rpc.Bucket(ctx, bucketURL, "/v1/get_chunk", getReq, &chunkResp); err != nil {
			return fmt.Errorf("get_chunk %d: %w", chunkIndex, err)
		}

		data, err := base64.StdEncoding.DecodeString(chunkResp.Data)
		if err != nil {
			return fmt.Errorf("decode chunk %d: %w", chunkIndex, err)
		}
		if _, err := out.Write(data); err != nil {
			return fmt.Errorf("write chunk %d: %w", chunkIndex, err)
		}

		if !jsonOutput {
			printer.Info("fetched chunk %d/%d", chunkIndex+1, plan.ChunkCount)
		}
	}

	if jsonOutput {
		return printer.JSON(map[string]any{"path": outPath, "chunk_count": plan.ChunkCount})
	}
	printer.Success("downloaded to %s", outPath)
	return nil
}

func locationFor(plan client.DownloadPlanWire, chunkIndex uint32) (client.ChunkLocationWire, bool) {
	for _, l := range plan.Locations {
		if l.ChunkIndex == chunkIndex {
			return l, true
		}
	}
	return client.ChunkLocationWire{}, false
}
