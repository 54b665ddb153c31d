package client

// These mirror the JSON shapes internal/directory/wire.go and
// internal/bucket/wire.go encode, kept as a third independent copy the same
// way the Directory and Bucket packages each keep their own: vaultctl has no
// compile-time dependency on either service package, only on the wire
// contract between them.

type FundingWire struct {
	Tag    string `json:"tag"`
	Ledger string `json:"ledger,omitempty"`
}

type FileIDWire struct {
	Owner string `json:"owner"`
	ID    string `json:"id"`
}

type StartUploadRequest struct {
	Caller    string      `json:"caller"`
	Name      string      `json:"name"`
	Mime      string      `json:"mime"`
	SizeBytes uint64      `json:"size_bytes"`
	Funding   FundingWire `json:"funding"`
}

type StartUploadResponse struct {
	FileID         FileIDWire `json:"file_id"`
	UploadID       string     `json:"upload_id"`
	ExpectedChunks uint64     `json:"expected_chunks"`
}

type GetUploadTokensRequest struct {
	Caller       string   `json:"caller"`
	UploadID     string   `json:"upload_id"`
	ChunkIndices []uint32 `json:"chunk_indices"`
}

type UploadTokenWire struct {
	UploadID      string   `json:"upload_id"`
	FileOwner     string   `json:"file_owner"`
	FileID        string   `json:"file_id"`
	BucketID      string   `json:"bucket_id"`
	DirectoryID   string   `json:"directory_id"`
	ExpiresAtNs   uint64   `json:"expires_at_ns"`
	AllowedChunks []uint32 `json:"allowed_chunks"`
	Sig           string   `json:"sig"`
}

type GetUploadTokensResponse struct {
	BucketID string          `json:"bucket_id"`
	Token    UploadTokenWire `json:"token"`
}

type ReportChunkUploadedRequest struct {
	Caller     string `json:"caller"`
	UploadID   string `json:"upload_id"`
	ChunkIndex uint32 `json:"chunk_index"`
}

type CommitUploadRequest struct {
	Caller   string `json:"caller"`
	UploadID string `json:"upload_id"`
	SHA256   string `json:"sha256,omitempty"`
}

type FileMetaWire struct {
	FileID      FileIDWire `json:"file_id"`
	Name        string     `json:"name"`
	Mime        string     `json:"mime"`
	SizeBytes   uint64     `json:"size_bytes"`
	ChunkSize   uint32     `json:"chunk_size"`
	ChunkCount  uint32     `json:"chunk_count"`
	CreatedAtNs uint64     `json:"created_at_ns"`
	UpdatedAtNs uint64     `json:"updated_at_ns"`
	Status      string     `json:"status"`
	SHA256      string     `json:"sha256,omitempty"`
}

type AbortUploadRequest struct {
	Caller   string `json:"caller"`
	UploadID string `json:"upload_id"`
}

type GetDownloadPlanRequest struct {
	Caller string     `json:"caller"`
	FileID FileIDWire `json:"file_id"`
}

type GetDownloadPlanViaLinkRequest struct {
	LinkToken string `json:"link_token"`
}

type DownloadTokenWire struct {
	FileOwner   string `json:"file_owner"`
	FileID      string `json:"file_id"`
	BucketID    string `json:"bucket_id"`
	DirectoryID string `json:"directory_id"`
	ExpiresAtNs uint64 `json:"expires_at_ns"`
	Sig         string `json:"sig"`
}

type ChunkLocationWire struct {
	ChunkIndex uint32 `json:"chunk_index"`
	Bucket     string `json:"bucket"`
}

type BucketAuthWire struct {
	BucketID string            `json:"bucket_id"`
	Token    DownloadTokenWire `json:"token"`
}

type DownloadPlanWire struct {
	ChunkCount uint32              `json:"chunk_count"`
	ChunkSize  uint32              `json:"chunk_size"`
	Locations  []ChunkLocationWire `json:"locations"`
	Auth       []BucketAuthWire    `json:"auth"`
}

// AuthFor returns the BucketAuthWire for the given bucket hex principal, if
// the plan carries one.
func (p DownloadPlanWire) AuthFor(bucketHex string) (BucketAuthWire, bool) {
	for _, a := range p.Auth {
		if a.BucketID == bucketHex {
			return a, true
		}
	}
	return BucketAuthWire{}, false
}

type CreateShareLinkRequest struct {
	Caller string     `json:"caller"`
	FileID FileIDWire `json:"file_id"`
	TTLNs  uint64     `json:"ttl_ns"`
}

type CreateShareLinkResponse struct {
	LinkToken string `json:"link_token"`
}

type ResolveShareLinkRequest struct {
	LinkToken string `json:"link_token"`
}

type RevokeShareLinkRequest struct {
	Caller    string `json:"caller"`
	LinkToken string `json:"link_token"`
}

type FileAccessRequest struct {
	Caller  string     `json:"caller"`
	FileID  FileIDWire `json:"file_id"`
	Grantee string     `json:"grantee"`
	Role    string     `json:"role"`
}

type DeleteFileRequest struct {
	Caller string     `json:"caller"`
	FileID FileIDWire `json:"file_id"`
}

type ProvisionBucketRequest struct {
	Caller         string `json:"caller"`
	BucketID       string `json:"bucket_id"`
	BaseURL        string `json:"base_url"`
	SoftLimitBytes uint64 `json:"soft_limit_bytes"`
	HardLimitBytes uint64 `json:"hard_limit_bytes"`
}

type AdminSetBucketWritableRequest struct {
	Caller   string `json:"caller"`
	BucketID string `json:"bucket_id"`
	Writable bool   `json:"writable"`
}

type AdminSetQuotaRequest struct {
	Caller     string `json:"caller"`
	Target     string `json:"target"`
	QuotaBytes uint64 `json:"quota_bytes"`
}

// PutChunkRequest is the Bucket's put_chunk body; Data is base64.
type PutChunkRequest struct {
	Token      UploadTokenWire `json:"token"`
	ChunkIndex uint32          `json:"chunk_index"`
	Data       string          `json:"data"`
	Funding    FundingWire     `json:"funding"`
}

type PutChunkResponse struct {
	Size int `json:"size"`
}

// GetChunkRequest is the Bucket's get_chunk body.
type GetChunkRequest struct {
	Token      DownloadTokenWire `json:"token"`
	ChunkIndex uint32            `json:"chunk_index"`
}

type GetChunkResponse struct {
	Data string `json:"data"` // base64
}
