package bucket

import (
	"encoding/hex"
	"fmt"

	"github.com/AntonioVentilii/vault-core/internal/payment"
	"github.com/AntonioVentilii/vault-core/internal/principal"
	"github.com/AntonioVentilii/vault-core/internal/vaulttypes"
)

// uploadTokenWire is the JSON wire shape for vaulttypes.UploadToken: every
// binary field is hex-encoded so the envelope round-trips through plain
// JSON without the "array of small integers" shape Go's default byte-array
// encoding would otherwise produce.
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

func decodeUploadToken(w uploadTokenWire) (vaulttypes.UploadToken, error) {
	var t vaulttypes.UploadToken

	uploadID, err := hex.DecodeString(w.UploadID)
	if err != nil || len(uploadID) != vaulttypes.FileIDLen {
		return t, fmt.Errorf("invalid upload_id")
	}
	copy(t.UploadID[:], uploadID)

	owner, err := principal.FromHex(w.FileOwner)
	if err != nil {
		return t, fmt.Errorf("invalid file_owner: %w", err)
	}

	fileIDBytes, err := hex.DecodeString(w.FileID)
	if err != nil || len(fileIDBytes) != vaulttypes.FileIDLen {
		return t, fmt.Errorf("invalid file_id")
	}
	var fid [vaulttypes.FileIDLen]byte
	copy(fid[:], fileIDBytes)
	t.FileID = vaulttypes.FileID{Owner: owner, ID: fid}

	bucketID, err := principal.FromHex(w.BucketID)
	if err != nil {
		return t, fmt.Errorf("invalid bucket_id: %w", err)
	}
	t.BucketID = bucketID

	directoryID, err := principal.FromHex(w.DirectoryID)
	if err != nil {
		return t, fmt.Errorf("invalid directory_id: %w", err)
	}
	t.DirectoryID = directoryID

	t.ExpiresAtNs = w.ExpiresAtNs
	t.AllowedChunks = w.AllowedChunks

	sig, err := hex.DecodeString(w.Sig)
	if err != nil {
		return t, fmt.Errorf("invalid sig: %w", err)
	}
	t.Sig = sig

	return t, nil
}

// downloadTokenWire mirrors uploadTokenWire for vaulttypes.DownloadToken,
// which has no upload_id or allowed_chunks fields.
type downloadTokenWire struct {
	FileOwner   string `json:"file_owner"`
	FileID      string `json:"file_id"`
	BucketID    string `json:"bucket_id"`
	DirectoryID string `json:"directory_id"`
	ExpiresAtNs uint64 `json:"expires_at_ns"`
	Sig         string `json:"sig"`
}

func decodeDownloadToken(w downloadTokenWire) (vaulttypes.DownloadToken, error) {
	var t vaulttypes.DownloadToken

	owner, err := principal.FromHex(w.FileOwner)
	if err != nil {
		return t, fmt.Errorf("invalid file_owner: %w", err)
	}

	fileIDBytes, err := hex.DecodeString(w.FileID)
	if err != nil || len(fileIDBytes) != vaulttypes.FileIDLen {
		return t, fmt.Errorf("invalid file_id")
	}
	var fid [vaulttypes.FileIDLen]byte
	copy(fid[:], fileIDBytes)
	t.FileID = vaulttypes.FileID{Owner: owner, ID: fid}

	bucketID, err := principal.FromHex(w.BucketID)
	if err != nil {
		return t, fmt.Errorf("invalid bucket_id: %w", err)
	}
	t.BucketID = bucketID

	directoryID, err := principal.FromHex(w.DirectoryID)
	if err != nil {
		return t, fmt.Errorf("invalid directory_id: %w", err)
	}
	t.DirectoryID = directoryID

	t.ExpiresAtNs = w.ExpiresAtNs

	sig, err := hex.DecodeString(w.Sig)
	if err != nil {
		return t, fmt.Errorf("invalid sig: %w", err)
	}
	t.Sig = sig

	return t, nil
}

// fundingWire is the JSON wire shape for payment.FundingKind.
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
