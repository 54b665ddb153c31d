package directory

import (
	"encoding/hex"
	"net/http"

	"github.com/AntonioVentilii/vault-core/internal/directoryerr"
	"github.com/AntonioVentilii/vault-core/internal/principal"
	"github.com/AntonioVentilii/vault-core/internal/transport/httprpc"
	"github.com/AntonioVentilii/vault-core/internal/vaulttypes"
)

// Routes returns the Directory's RPC route table for registration with
// httprpc.NewMux.
func Routes(svc *Service) []httprpc.Route {
	return []httprpc.Route{
		{Pattern: "POST /v1/start_upload", startUploadHandler(svc)},
		{Pattern: "POST /v1/get_upload_tokens", getUploadTokensHandler(svc)},
		{Pattern: "POST /v1/report_chunk_uploaded", reportChunkUploadedHandler(svc)},
		{Pattern: "POST /v1/commit_upload", commitUploadHandler(svc)},
		{Pattern: "POST /v1/abort_upload", abortUploadHandler(svc)},
		{Pattern: "POST /v1/get_file_meta", getFileMetaHandler(svc)},
		{Pattern: "POST /v1/list_files", listFilesHandler(svc)},
		{Pattern: "POST /v1/get_usage", getUsageHandler(svc)},
		{Pattern: "POST /v1/get_pricing", getPricingHandler(svc)},
		{Pattern: "POST /v1/get_download_plan", getDownloadPlanHandler(svc)},
		{Pattern: "POST /v1/get_download_plan_via_link", getDownloadPlanViaLinkHandler(svc)},
		{Pattern: "POST /v1/create_share_link", createShareLinkHandler(svc)},
		{Pattern: "POST /v1/resolve_share_link", resolveShareLinkHandler(svc)},
		{Pattern: "POST /v1/revoke_share_link", revokeShareLinkHandler(svc)},
		{Pattern: "POST /v1/add_file_access", addFileAccessHandler(svc)},
		{Pattern: "POST /v1/remove_file_access", removeFileAccessHandler(svc)},
		{Pattern: "POST /v1/delete_file", deleteFileHandler(svc)},
		{Pattern: "POST /v1/provision_bucket", provisionBucketHandler(svc)},
		{Pattern: "POST /v1/admin_set_bucket_writable", adminSetBucketWritableHandler(svc)},
		{Pattern: "POST /v1/admin_set_quota", adminSetQuotaHandler(svc)},
		{Pattern: "POST /v1/admin_set_account_expiry", adminSetAccountExpiryHandler(svc)},
		{Pattern: "POST /v1/admin_set_pricing", adminSetPricingHandler(svc)},
		{Pattern: "POST /v1/admin_withdraw", adminWithdrawHandler(svc)},
		{Pattern: "POST /v1/garbage_collect", garbageCollectHandler(svc)},
		{Pattern: "POST /v1/reap_expired_uploads", reapExpiredUploadsHandler(svc)},
	}
}

type startUploadRequest struct {
	Caller    string      `json:"caller"`
	Name      string      `json:"name"`
	Mime      string      `json:"mime"`
	SizeBytes uint64      `json:"size_bytes"`
	Funding   fundingWire `json:"funding"`
}

func startUploadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req startUploadRequest
		if !httprpc.DecodeJSON(w, r, &req) {
			return
		}
		caller, err := principal.FromHex(req.Caller)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest("invalid caller"))
			return
		}
		funding, err := decodeFunding(req.Funding)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest(err.Error()))
			return
		}

		fileID, uploadID, reserved, dirErr := svc.StartUpload(r.Context(), caller, req.Name, req.Mime, req.SizeBytes, funding)
		if dirErr != nil {
			httprpc.WriteErrWithDetail(w, r, directoryerr.HTTPStatus, dirErr, dirErr)
			return
		}

		httprpc.WriteOk(w, r, map[string]any{
			"file_id":         encodeFileID(fileID),
			"upload_id":       hex.EncodeToString(uploadID[:]),
			"expected_chunks": reserved,
		})
	}
}

type getUploadTokensRequest struct {
	Caller       string   `json:"caller"`
	UploadID     string   `json:"upload_id"`
	ChunkIndices []uint32 `json:"chunk_indices"`
}

func getUploadTokensHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req getUploadTokensRequest
		if !httprpc.DecodeJSON(w, r, &req) {
			return
		}
		caller, err := principal.FromHex(req.Caller)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest("invalid caller"))
			return
		}
		uploadID, err := decodeUploadIDHex(req.UploadID)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest(err.Error()))
			return
		}

		bucket, token, dirErr := svc.GetUploadTokens(caller, uploadID, req.ChunkIndices)
		if dirErr != nil {
			httprpc.WriteErrWithDetail(w, r, directoryerr.HTTPStatus, dirErr, dirErr)
			return
		}

		httprpc.WriteOk(w, r, map[string]any{
			"bucket_id": bucket.String(),
			"token":     encodeUploadToken(token),
		})
	}
}

type reportChunkUploadedRequest struct {
	Caller     string `json:"caller"`
	UploadID   string `json:"upload_id"`
	ChunkIndex uint32 `json:"chunk_index"`
}

func reportChunkUploadedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reportChunkUploadedRequest
		if !httprpc.DecodeJSON(w, r, &req) {
			return
		}
		caller, err := principal.FromHex(req.Caller)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest("invalid caller"))
			return
		}
		uploadID, err := decodeUploadIDHex(req.UploadID)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest(err.Error()))
			return
		}

		if dirErr := svc.ReportChunkUploaded(caller, uploadID, req.ChunkIndex); dirErr != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, dirErr)
			return
		}
		httprpc.WriteOk(w, r, struct{}{})
	}
}

type commitUploadRequest struct {
	Caller   string `json:"caller"`
	UploadID string `json:"upload_id"`
	SHA256   string `json:"sha256,omitempty"`
}

func commitUploadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req commitUploadRequest
		if !httprpc.DecodeJSON(w, r, &req) {
			return
		}
		caller, err := principal.FromHex(req.Caller)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest("invalid caller"))
			return
		}
		uploadID, err := decodeUploadIDHex(req.UploadID)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest(err.Error()))
			return
		}
		var sha []byte
		if req.SHA256 != "" {
			sha, err = hex.DecodeString(req.SHA256)
			if err != nil {
				httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest("invalid sha256"))
				return
			}
		}

		meta, dirErr := svc.CommitUpload(caller, uploadID, sha)
		if dirErr != nil {
			httprpc.WriteErrWithDetail(w, r, directoryerr.HTTPStatus, dirErr, dirErr)
			return
		}
		httprpc.WriteOk(w, r, encodeFileMeta(meta))
	}
}

type abortUploadRequest struct {
	Caller   string `json:"caller"`
	UploadID string `json:"upload_id"`
}

func abortUploadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req abortUploadRequest
		if !httprpc.DecodeJSON(w, r, &req) {
			return
		}
		caller, err := principal.FromHex(req.Caller)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest("invalid caller"))
			return
		}
		uploadID, err := decodeUploadIDHex(req.UploadID)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest(err.Error()))
			return
		}
		if dirErr := svc.AbortUpload(caller, uploadID); dirErr != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, dirErr)
			return
		}
		httprpc.WriteOk(w, r, struct{}{})
	}
}

type getDownloadPlanRequest struct {
	Caller string     `json:"caller"`
	FileID fileIDWire `json:"file_id"`
}

func getDownloadPlanHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req getDownloadPlanRequest
		if !httprpc.DecodeJSON(w, r, &req) {
			return
		}
		caller, err := principal.FromHex(req.Caller)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest("invalid caller"))
			return
		}
		fileID, err := decodeFileID(req.FileID)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest(err.Error()))
			return
		}

		plan, dirErr := svc.GetDownloadPlan(caller, fileID)
		if dirErr != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, dirErr)
			return
		}
		httprpc.WriteOk(w, r, encodeDownloadPlan(plan))
	}
}

type getDownloadPlanViaLinkRequest struct {
	LinkToken string `json:"link_token"`
}

func getDownloadPlanViaLinkHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req getDownloadPlanViaLinkRequest
		if !httprpc.DecodeJSON(w, r, &req) {
			return
		}
		token, err := hex.DecodeString(req.LinkToken)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest("invalid link token"))
			return
		}
		plan, dirErr := svc.GetDownloadPlanViaLink(token)
		if dirErr != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, dirErr)
			return
		}
		httprpc.WriteOk(w, r, encodeDownloadPlan(plan))
	}
}

type createShareLinkRequest struct {
	Caller string     `json:"caller"`
	FileID fileIDWire `json:"file_id"`
	TTLNs  uint64     `json:"ttl_ns"`
}

func createShareLinkHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createShareLinkRequest
		if !httprpc.DecodeJSON(w, r, &req) {
			return
		}
		caller, err := principal.FromHex(req.Caller)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest("invalid caller"))
			return
		}
		fileID, err := decodeFileID(req.FileID)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest(err.Error()))
			return
		}

		token, dirErr := svc.CreateShareLink(caller, fileID, req.TTLNs)
		if dirErr != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, dirErr)
			return
		}
		httprpc.WriteOk(w, r, map[string]string{"link_token": hex.EncodeToString(token)})
	}
}

type resolveShareLinkRequest struct {
	LinkToken string `json:"link_token"`
}

func resolveShareLinkHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resolveShareLinkRequest
		if !httprpc.DecodeJSON(w, r, &req) {
			return
		}
		token, err := hex.DecodeString(req.LinkToken)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest("invalid link token"))
			return
		}
		fileID, dirErr := svc.ResolveShareLink(token)
		if dirErr != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, dirErr)
			return
		}
		httprpc.WriteOk(w, r, encodeFileID(fileID))
	}
}

type revokeShareLinkRequest struct {
	Caller    string `json:"caller"`
	LinkToken string `json:"link_token"`
}

func revokeShareLinkHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req revokeShareLinkRequest
		if !httprpc.DecodeJSON(w, r, &req) {
			return
		}
		caller, err := principal.FromHex(req.Caller)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest("invalid caller"))
			return
		}
		token, err := hex.DecodeString(req.LinkToken)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest("invalid link token"))
			return
		}
		if dirErr := svc.RevokeShareLink(caller, token); dirErr != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, dirErr)
			return
		}
		httprpc.WriteOk(w, r, struct{}{})
	}
}

type fileAccessRequest struct {
	Caller  string     `json:"caller"`
	FileID  fileIDWire `json:"file_id"`
	Grantee string     `json:"grantee"`
	Role    string     `json:"role"`
}

func addFileAccessHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, fileID, grantee, role, ok := decodeFileAccessRequest(w, r)
		if !ok {
			return
		}
		if dirErr := svc.AddFileAccess(caller, fileID, grantee, role); dirErr != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, dirErr)
			return
		}
		httprpc.WriteOk(w, r, struct{}{})
	}
}

func removeFileAccessHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, fileID, grantee, role, ok := decodeFileAccessRequest(w, r)
		if !ok {
			return
		}
		if dirErr := svc.RemoveFileAccess(caller, fileID, grantee, role); dirErr != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, dirErr)
			return
		}
		httprpc.WriteOk(w, r, struct{}{})
	}
}

func decodeFileAccessRequest(w http.ResponseWriter, r *http.Request) (principal.Principal, vaulttypes.FileID, principal.Principal, vaulttypes.FileRole, bool) {
	var req fileAccessRequest
	if !httprpc.DecodeJSON(w, r, &req) {
		return nil, vaulttypes.FileID{}, nil, "", false
	}
	caller, err := principal.FromHex(req.Caller)
	if err != nil {
		httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest("invalid caller"))
		return nil, vaulttypes.FileID{}, nil, "", false
	}
	fileID, err := decodeFileID(req.FileID)
	if err != nil {
		httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest(err.Error()))
		return nil, vaulttypes.FileID{}, nil, "", false
	}
	grantee, err := principal.FromHex(req.Grantee)
	if err != nil {
		httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest("invalid grantee"))
		return nil, vaulttypes.FileID{}, nil, "", false
	}
	return caller, fileID, grantee, vaulttypes.FileRole(req.Role), true
}

type deleteFileRequest struct {
	Caller string     `json:"caller"`
	FileID fileIDWire `json:"file_id"`
}

func deleteFileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req deleteFileRequest
		if !httprpc.DecodeJSON(w, r, &req) {
			return
		}
		caller, err := principal.FromHex(req.Caller)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest("invalid caller"))
			return
		}
		fileID, err := decodeFileID(req.FileID)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest(err.Error()))
			return
		}
		if dirErr := svc.DeleteFile(r.Context(), caller, fileID); dirErr != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, dirErr)
			return
		}
		httprpc.WriteOk(w, r, struct{}{})
	}
}

type provisionBucketRequest struct {
	Caller         string `json:"caller"`
	BucketID       string `json:"bucket_id"`
	BaseURL        string `json:"base_url"`
	SoftLimitBytes uint64 `json:"soft_limit_bytes"`
	HardLimitBytes uint64 `json:"hard_limit_bytes"`
}

func provisionBucketHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req provisionBucketRequest
		if !httprpc.DecodeJSON(w, r, &req) {
			return
		}
		caller, err := principal.FromHex(req.Caller)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest("invalid caller"))
			return
		}
		bucketID, err := principal.FromHex(req.BucketID)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest("invalid bucket_id"))
			return
		}
		if dirErr := svc.ProvisionBucket(caller, bucketID, req.BaseURL, req.SoftLimitBytes, req.HardLimitBytes); dirErr != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, dirErr)
			return
		}
		httprpc.WriteOk(w, r, struct{}{})
	}
}

type adminSetBucketWritableRequest struct {
	Caller   string `json:"caller"`
	BucketID string `json:"bucket_id"`
	Writable bool   `json:"writable"`
}

func adminSetBucketWritableHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminSetBucketWritableRequest
		if !httprpc.DecodeJSON(w, r, &req) {
			return
		}
		caller, err := principal.FromHex(req.Caller)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest("invalid caller"))
			return
		}
		bucketID, err := principal.FromHex(req.BucketID)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest("invalid bucket_id"))
			return
		}
		if dirErr := svc.AdminSetBucketWritable(caller, bucketID, req.Writable); dirErr != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, dirErr)
			return
		}
		httprpc.WriteOk(w, r, struct{}{})
	}
}

type adminSetQuotaRequest struct {
	Caller     string `json:"caller"`
	Target     string `json:"target"`
	QuotaBytes uint64 `json:"quota_bytes"`
}

func adminSetQuotaHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminSetQuotaRequest
		if !httprpc.DecodeJSON(w, r, &req) {
			return
		}
		caller, err := principal.FromHex(req.Caller)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest("invalid caller"))
			return
		}
		target, err := principal.FromHex(req.Target)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest("invalid target"))
			return
		}
		if dirErr := svc.AdminSetQuota(caller, target, req.QuotaBytes); dirErr != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, dirErr)
			return
		}
		httprpc.WriteOk(w, r, struct{}{})
	}
}

type adminSetAccountExpiryRequest struct {
	Caller      string `json:"caller"`
	Target      string `json:"target"`
	ExpiresAtNs uint64 `json:"expires_at_ns"`
}

func adminSetAccountExpiryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminSetAccountExpiryRequest
		if !httprpc.DecodeJSON(w, r, &req) {
			return
		}
		caller, err := principal.FromHex(req.Caller)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest("invalid caller"))
			return
		}
		target, err := principal.FromHex(req.Target)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest("invalid target"))
			return
		}
		if dirErr := svc.AdminSetAccountExpiry(caller, target, req.ExpiresAtNs); dirErr != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, dirErr)
			return
		}
		httprpc.WriteOk(w, r, struct{}{})
	}
}

func garbageCollectHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reaped, reclaimed := svc.GarbageCollect(r.Context())
		httprpc.WriteOk(w, r, map[string]int{"reaped": reaped, "reclaimed": reclaimed})
	}
}

func reapExpiredUploadsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reaped := svc.ReapExpiredUploads(r.Context())
		httprpc.WriteOk(w, r, map[string]int{"reaped": reaped})
	}
}

type getFileMetaRequest struct {
	Caller string     `json:"caller"`
	FileID fileIDWire `json:"file_id"`
}

func getFileMetaHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req getFileMetaRequest
		if !httprpc.DecodeJSON(w, r, &req) {
			return
		}
		caller, err := principal.FromHex(req.Caller)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest("invalid caller"))
			return
		}
		fileID, err := decodeFileID(req.FileID)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest(err.Error()))
			return
		}
		meta, dirErr := svc.GetFileMeta(caller, fileID)
		if dirErr != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, dirErr)
			return
		}
		httprpc.WriteOk(w, r, encodeFileMeta(meta))
	}
}

type listFilesRequest struct {
	Caller string `json:"caller"`
}

func listFilesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req listFilesRequest
		if !httprpc.DecodeJSON(w, r, &req) {
			return
		}
		caller, err := principal.FromHex(req.Caller)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest("invalid caller"))
			return
		}
		files := svc.ListFiles(caller)
		wire := make([]fileMetaWire, len(files))
		for i, m := range files {
			wire[i] = encodeFileMeta(m)
		}
		httprpc.WriteOk(w, r, wire)
	}
}

type getUsageRequest struct {
	Caller string `json:"caller"`
	Target string `json:"target,omitempty"`
}

func getUsageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req getUsageRequest
		if !httprpc.DecodeJSON(w, r, &req) {
			return
		}
		caller, err := principal.FromHex(req.Caller)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest("invalid caller"))
			return
		}
		var target principal.Principal
		if req.Target != "" {
			target, err = principal.FromHex(req.Target)
			if err != nil {
				httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest("invalid target"))
				return
			}
		}
		usage, dirErr := svc.GetUsage(caller, target)
		if dirErr != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, dirErr)
			return
		}
		httprpc.WriteOk(w, r, map[string]uint64{
			"used_bytes":    usage.UsedBytes,
			"quota_bytes":   usage.QuotaBytes,
			"expires_at_ns": usage.ExpiresAtNs,
		})
	}
}

func getPricingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rate, blurb := svc.GetPricing()
		httprpc.WriteOk(w, r, map[string]any{"rate_per_gb_per_month": rate, "blurb": blurb})
	}
}

type adminSetPricingRequest struct {
	Caller            string `json:"caller"`
	RatePerGBPerMonth uint64 `json:"rate_per_gb_per_month"`
	Blurb             string `json:"blurb,omitempty"`
}

func adminSetPricingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminSetPricingRequest
		if !httprpc.DecodeJSON(w, r, &req) {
			return
		}
		caller, err := principal.FromHex(req.Caller)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest("invalid caller"))
			return
		}
		if dirErr := svc.AdminSetPricing(caller, req.RatePerGBPerMonth, req.Blurb); dirErr != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, dirErr)
			return
		}
		httprpc.WriteOk(w, r, struct{}{})
	}
}

type adminWithdrawRequest struct {
	Caller string `json:"caller"`
	Ledger string `json:"ledger"`
	Amount uint64 `json:"amount"`
	To     string `json:"to"`
}

func adminWithdrawHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminWithdrawRequest
		if !httprpc.DecodeJSON(w, r, &req) {
			return
		}
		caller, err := principal.FromHex(req.Caller)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest("invalid caller"))
			return
		}
		to, err := principal.FromHex(req.To)
		if err != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, directoryerr.InvalidRequest("invalid to"))
			return
		}
		if dirErr := svc.AdminWithdraw(r.Context(), caller, req.Ledger, req.Amount, to); dirErr != nil {
			httprpc.WriteErr(w, r, directoryerr.HTTPStatus, dirErr)
			return
		}
		httprpc.WriteOk(w, r, struct{}{})
	}
}
