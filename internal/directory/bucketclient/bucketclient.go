// Package bucketclient is the Directory's outbound RPC client to a Bucket,
// used only for delete_file cascades (upload/download traffic flows
// directly between the client and the Bucket once the Directory has handed
// out a token).
package bucketclient

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/AntonioVentilii/vault-core/internal/principal"
	"github.com/AntonioVentilii/vault-core/internal/vaulttypes"
)

// Client issues delete_file against a Bucket identified by its base URL.
type Client interface {
	DeleteFile(ctx context.Context, bucketBaseURL string, owner principal.Principal, fileID [vaulttypes.FileIDLen]byte) error
}

// HTTPClient is the production Client, talking to a Bucket's HTTP RPC
// surface (internal/bucket/api.go).
type HTTPClient struct {
	httpClient *http.Client
}

// NewHTTPClient constructs an HTTPClient with the given timeout.
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{httpClient: &http.Client{Timeout: timeout}}
}

type deleteFileRequest struct {
	Owner  string `json:"owner"`
	FileID string `json:"file_id"`
}

func (c *HTTPClient) DeleteFile(ctx context.Context, bucketBaseURL string, owner principal.Principal, fileID [vaulttypes.FileIDLen]byte) error {
	body, err := json.Marshal(deleteFileRequest{
		Owner:  owner.String(),
		FileID: hex.EncodeToString(fileID[:]),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, bucketBaseURL+"/v1/delete_file", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("bucketclient: delete_file returned status %d", resp.StatusCode)
	}
	return nil
}
