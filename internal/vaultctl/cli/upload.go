package cli

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/AntonioVentilii/vault-core/internal/vaultctl/client"
	"github.com/AntonioVentilii/vault-core/internal/vaulttypes"
	"github.com/spf13/cobra"
)

var (
	uploadFundingTag string
	uploadLedger     string
)

var uploadCmd = &cobra.Command{
	Use:   "upload <path>",
	Short: "Upload a file, chunking it and reporting each chunk as it lands",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpload,
}

func init() {
	uploadCmd.Flags().StringVar(&uploadFundingTag, "funding", "attached_cycles", "Funding tag: attached_cycles, caller_pays_cycles, patron_pays_cycles, caller_pays_tokens, patron_pays_tokens")
	uploadCmd.Flags().StringVar(&uploadLedger, "ledger", "", "Ledger name, required for the *_tokens funding tags")
}

func runUpload(cmd *cobra.Command, args []string) (err error) {
	if err := requireConfigured(); err != nil {
		return err
	}
	ctx := GetContext()
	path := args[0]

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	sizeBytes := uint64(info.Size())
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	if !jsonOutput {
		printer.Info("starting upload of %s (%d bytes)...", path, sizeBytes)
	}

	var startResp client.StartUploadResponse
	startReq := client.StartUploadRequest{
		Caller:    cfg.PrincipalHex,
		Name:      filepath.Base(path),
		Mime:      mimeType,
		SizeBytes: sizeBytes,
		Funding:   client.FundingWire{Tag: uploadFundingTag, Ledger: uploadLedger},
	}
	if err := rpc.Directory(ctx, "/v1/start_upload", startReq, &startResp); err != nil {
		return fmt.Errorf("start_upload: %w", err)
	}
	defer func() {
		if err != nil {
			abortReq := client.AbortUploadRequest{Caller: cfg.PrincipalHex, UploadID: startResp.UploadID}
			_ = rpc.Directory(ctx, "/v1/abort_upload", abortReq, nil)
		}
	}()

	chunkCount := vaulttypes.ChunkCount(sizeBytes, vaulttypes.UploadChunkSize)
	buf := make([]byte, vaulttypes.UploadChunkSize)

	for chunkIndex := uint32(0); chunkIndex < chunkCount; chunkIndex++ {
		n, readErr := io.ReadFull(f, buf)
		if readErr != nil && readErr != io.ErrUnexpectedEOF && readErr != io.EOF {
			return fmt.Errorf("read chunk %d: %w", chunkIndex, readErr)
		}

		var tokensResp client.GetUploadTokensResponse
		tokensReq := client.GetUploadTokensRequest{
			Caller:       cfg.PrincipalHex,
			UploadID:     startResp.UploadID,
			ChunkIndices: []uint32{chunkIndex},
		}
		if err := rpc.Directory(ctx, "/v1/get_upload_tokens", tokensReq, &tokensResp); err != nil {
			return fmt.Errorf("get_upload_tokens chunk %d: %w", chunkIndex, err)
		}

		bucketURL, ok := cfg.BucketURL(tokensResp.BucketID)
		if !ok {
			return fmt.Errorf("no known base URL for bucket %s; register one with 'vaultctl config bucket-url'", tokensResp.BucketID)
		}

		var putResp client.PutChunkResponse
		putReq := client.PutChunkRequest{
			Token:      tokensResp.Token,
			ChunkIndex: chunkIndex,
			Data:       base64.StdEncoding.EncodeToString(buf[:n]),
			Funding:    client.FundingWire{Tag: uploadFundingTag, Ledger: uploadLedger},
		}
		if err := rpc.Bucket(ctx, bucketURL, "/v1/put_chunk", putReq, &putResp); err != nil {
			return fmt.Errorf("put_chunk %d: %w", chunkIndex, err)
		}

		reportReq := client.ReportChunkUploadedRequest{
			Caller:     cfg.PrincipalHex,
			UploadID:   startResp.UploadID,
			ChunkIndex: chunkIndex,
		}
		if err := rpc.Directory(ctx, "/v1/report_chunk_uploaded", reportReq, nil); err != nil {
			return fmt.Errorf("report_chunk_uploaded %d: %w", chunkIndex, err)
		}

		if !jsonOutput {
			printer.Info("uploaded chunk %d/%d", chunkIndex+1, chunkCount)
		}
	}

	var meta client.FileMetaWire
	commitReq := client.CommitUploadRequest{Caller: cfg.PrincipalHex, UploadID: startResp.UploadID}
	if err := rpc.Directory(ctx, "/v1/commit_upload", commitReq, &meta); err != nil {
		return fmt.Errorf("commit_upload: %w", err)
	}

	if jsonOutput {
		return printer.JSON(meta)
	}

	printer.Success("upload complete")
	printer.KeyValue("File ID", formatFileID(meta.FileID))
	printer.KeyValue("Name", meta.Name)
	printer.KeyValue("Size", fmt.Sprintf("%d bytes", meta.SizeBytes))
	printer.KeyValue("Chunks", fmt.Sprintf("%d", meta.ChunkCount))
	return nil
}
