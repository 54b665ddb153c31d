package directory

import (
	"encoding/hex"
	"fmt"

	"github.com/AntonioVentilii/vault-core/internal/payment"
	"github.com/AntonioVentilii/vault-core/internal/principal"
	"github.com/AntonioVentilii/vault-core/internal/vaulttypes"
)

// fileIDWire is the JSON wire shape for vaulttypes.FileID.
type fileIDWire struct {
	Owner string `json:"owner"`
	ID    string `json:"id"`
}

func decodeFileID(w fileIDWire) (vaulttypes.FileID, error) {
	owner, err := principal.FromHex(w.Owner)
	if err != nil {
		return vaulttypes.FileID{}, fmt.Errorf("invalid owner: %w", err)
	}
	idBytes, err := hex.DecodeString(w.ID)
	if err != nil || len(idBytes) != vaulttypes.FileIDLen {
		return vaulttypes.FileID{}, fmt.Errorf("invalid file id")
	}
	var id [vaulttypes.FileIDLen]byte
	copy(id[:], idBytes)
	return vaulttypes.FileID{Owner: owner, ID: id}, nil
}

func encodeFileID(f vaulttypes.FileID) fileIDWire {
	return fileIDWire{Owner: f.Owner.String(), ID: hex.EncodeToString(f.ID[:])}
}

func decodeUploadIDHex(s string) ([vaulttypes.FileIDLen]byte, error) {
	var id [vaulttypes.FileIDLen]byte
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != vaulttypes.FileIDLen {
		return id, fmt.Errorf("invalid upload id")
	}
	copy(id[:], b)
	return id, nil
}

type fundingWire struct {
	Tag    string `json:"tag"`
	Ledger string `json:"ledger,omitempty"`
}

func decodeFunding(w fundingWire) (payment.FundingKind, error) {
	switch payment.FundingKindTag(w.Tag) {
	case payment.FundingAttachedCycles, payment.FundingCallerPaysCycles, payment.FundingPatronPaysCycles:
		return payment.FundingKind{Tag: payment.FundingKindTag(w.Tag)}, nil
	case payment.FundingCallerPaysTokens, payment.FundingPatronPaysTokens:
		if w.Ledger == "" {
			return payment.FundingKind{}, fmt.Errorf("funding tag %q requires a ledger", w.Tag)
		}
		return payment.FundingKind{Tag: payment.FundingKindTag(w.Tag), Ledger: w.Ledger}, nil
	default:
		return payment.FundingKind{}, fmt.Errorf("unknown funding tag %q", w.Tag)
	}
}

type uploadTokenWire struct {
	UploadID      string   `json:"upload_id"`
	FileOwner     string   `json:"file_owner"`
	FileID        string   `json:"file_id"`
	BucketID      string   `json:"bucket_id"`
	DirectoryID   string   `json:"directory_id"`
	ExpiresAtNs   uint64   `json:"expires_at_ns"`
	AllowedChunks []uint32 `json:"allowed_chunks"`
	Sig           string   `json:"sig"`
}

func encodeUploadToken(t vaulttypes.UploadToken) uploadTokenWire {
	return uploadTokenWire{
		UploadID:      hex.EncodeToString(t.UploadID[:]),
		FileOwner:     t.FileID.Owner.String(),
		FileID:        hex.EncodeToString(t.FileID.ID[:]),
		BucketID:      t.BucketID.String(),
		DirectoryID:   t.DirectoryID.String(),
		ExpiresAtNs:   t.ExpiresAtNs,
		AllowedChunks: t.AllowedChunks,
		Sig:           hex.EncodeToString(t.Sig),
	}
}

type downloadTokenWire struct {
	FileOwner   string `json:"file_owner"`
	FileID      string `json:"file_id"`
	BucketID    string `json:"bucket_id"`
	DirectoryID string `json:"directory_id"`
	ExpiresAtNs uint64 `json:"expires_at_ns"`
	Sig         string `json:"sig"`
}

func encodeDownloadToken(t vaulttypes.DownloadToken) downloadTokenWire {
	return downloadTokenWire{
		FileOwner:   t.FileID.Owner.String(),
		FileID:      hex.EncodeToString(t.FileID.ID[:]),
		BucketID:    t.BucketID.String(),
		DirectoryID: t.DirectoryID.String(),
		ExpiresAtNs: t.ExpiresAtNs,
		Sig:         hex.EncodeToString(t.Sig),
	}
}

type chunkLocationWire struct {
	ChunkIndex uint32 `json:"chunk_index"`
	Bucket     string `json:"bucket"`
}

type bucketAuthWire struct {
	BucketID string            `json:"bucket_id"`
	Token    downloadTokenWire `json:"token"`
}

type downloadPlanWire struct {
	ChunkCount uint32              `json:"chunk_count"`
	ChunkSize  uint32              `json:"chunk_size"`
	Locations  []chunkLocationWire `json:"locations"`
	Auth       []bucketAuthWire    `json:"auth"`
}

func encodeDownloadPlan(p vaulttypes.DownloadPlan) downloadPlanWire {
	locations := make([]chunkLocationWire, len(p.Locations))
	for i, l := range p.Locations {
		locations[i] = chunkLocationWire{ChunkIndex: l.ChunkIndex, Bucket: l.Bucket.String()}
	}
	auth := make([]bucketAuthWire, len(p.Auth))
	for i, a := range p.Auth {
		auth[i] = bucketAuthWire{BucketID: a.BucketID.String(), Token: encodeDownloadToken(a.Token)}
	}
	return downloadPlanWire{
		ChunkCount: p.ChunkCount,
		ChunkSize:  p.ChunkSize,
		Locations:  locations,
		Auth:       auth,
	}
}

type fileMetaWire struct {
	FileID      fileIDWire `json:"file_id"`
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

func encodeFileMeta(m vaulttypes.FileMeta) fileMetaWire {
	sha := ""
	if len(m.SHA256) > 0 {
		sha = hex.EncodeToString(m.SHA256)
	}
	return fileMetaWire{
		FileID:      encodeFileID(m.FileID),
		Name:        m.Name,
		Mime:        m.Mime,
		SizeBytes:   m.SizeBytes,
		ChunkSize:   m.ChunkSize,
		ChunkCount:  m.ChunkCount,
		CreatedAtNs: m.CreatedAtNs,
		UpdatedAtNs: m.UpdatedAtNs,
		Status:      string(m.Status),
		SHA256:      sha,
	}
}
