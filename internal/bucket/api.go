package bucket

import (
	"encoding/base64"
	"encoding/hex"
	"net/http"

	"github.com/AntonioVentilii/vault-core/internal/bucketerr"
	"github.com/AntonioVentilii/vault-core/internal/principal"
	"github.com/AntonioVentilii/vault-core/internal/transport/httprpc"
	"github.com/AntonioVentilii/vault-core/internal/vaulttypes"
)

// Routes returns the Bucket's RPC route table for registration with
// httprpc.NewMux.
func Routes(svc *Service) []httprpc.Route {
	return []httprpc.Route{
		{Pattern: "POST /v1/put_chunk", Handler: putChunkHandler(svc)},
		{Pattern: "POST /v1/get_chunk", Handler: getChunkHandler(svc)},
		{Pattern: "POST /v1/delete_file", Handler: deleteFileHandler(svc)},
		{Pattern: "POST /v1/admin_set_read_only", Handler: adminSetReadOnlyHandler(svc)},
		{Pattern: "POST /v1/admin_withdraw", Handler: adminWithdrawHandler(svc)},
		{Pattern: "GET /v1/stat", Handler: statHandler(svc)},
		{Pattern: "GET /v1/get_status", Handler: getStatusHandler(svc)},
	}
}

type putChunkRequest struct {
	Token      uploadTokenWire `json:"token"`
	ChunkIndex uint32          `json:"chunk_index"`
	Data       string          `json:"data"` // base64
	Funding    fundingWire     `json:"funding"`
}

func putChunkHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req putChunkRequest
		if !httprpc.DecodeJSON(w, r, &req) {
			return
		}

		token, err := decodeUploadToken(req.Token)
		if err != nil {
			httprpc.WriteErr(w, r, bucketerr.HTTPStatus, bucketerr.Other(err.Error()))
			return
		}
		funding, err := decodeFunding(req.Funding)
		if err != nil {
			httprpc.WriteErr(w, r, bucketerr.HTTPStatus, bucketerr.Other(err.Error()))
			return
		}
		data, err := base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			httprpc.WriteErr(w, r, bucketerr.HTTPStatus, bucketerr.Other("invalid base64 data"))
			return
		}

		size, bucketErr := svc.PutChunk(r.Context(), token, req.ChunkIndex, data, funding)
		if bucketErr != nil {
			httprpc.WriteErrWithDetail(w, r, bucketerr.HTTPStatus, bucketErr, bucketErr)
			return
		}

		httprpc.WriteOk(w, r, map[string]int{"size": size})
	}
}

type getChunkRequest struct {
	Token      downloadTokenWire `json:"token"`
	ChunkIndex uint32            `json:"chunk_index"`
}

func getChunkHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req getChunkRequest
		if !httprpc.DecodeJSON(w, r, &req) {
			return
		}

		token, err := decodeDownloadToken(req.Token)
		if err != nil {
			httprpc.WriteErr(w, r, bucketerr.HTTPStatus, bucketerr.Other(err.Error()))
			return
		}

		data, bucketErr := svc.GetChunk(r.Context(), token, req.ChunkIndex)
		if bucketErr != nil {
			httprpc.WriteErrWithDetail(w, r, bucketerr.HTTPStatus, bucketErr, bucketErr)
			return
		}

		httprpc.WriteOk(w, r, map[string]string{"data": base64.StdEncoding.EncodeToString(data)})
	}
}

type deleteFileRequest struct {
	Owner  string `json:"owner"`
	FileID string `json:"file_id"`
}

func deleteFileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req deleteFileRequest
		if !httprpc.DecodeJSON(w, r, &req) {
			return
		}

		owner, err := principal.FromHex(req.Owner)
		if err != nil {
			httprpc.WriteErr(w, r, bucketerr.HTTPStatus, bucketerr.ErrInvalidFileID)
			return
		}
		fileIDBytes, err := hex.DecodeString(req.FileID)
		if err != nil || len(fileIDBytes) != vaulttypes.FileIDLen {
			httprpc.WriteErr(w, r, bucketerr.HTTPStatus, bucketerr.ErrInvalidFileID)
			return
		}
		var fid [vaulttypes.FileIDLen]byte
		copy(fid[:], fileIDBytes)

		svc.DeleteFile(owner, fid)
		httprpc.WriteOk(w, r, struct{}{})
	}
}

type adminSetReadOnlyRequest struct {
	Caller   string `json:"caller"`
	ReadOnly bool   `json:"read_only"`
}

func adminSetReadOnlyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminSetReadOnlyRequest
		if !httprpc.DecodeJSON(w, r, &req) {
			return
		}
		caller, err := principal.FromHex(req.Caller)
		if err != nil {
			httprpc.WriteErr(w, r, bucketerr.HTTPStatus, bucketerr.ErrUnauthorized)
			return
		}
		if bucketErr := svc.AdminSetReadOnly(caller, req.ReadOnly); bucketErr != nil {
			httprpc.WriteErr(w, r, bucketerr.HTTPStatus, bucketErr)
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
			httprpc.WriteErr(w, r, bucketerr.HTTPStatus, bucketerr.ErrUnauthorized)
			return
		}
		to, err := principal.FromHex(req.To)
		if err != nil {
			httprpc.WriteErr(w, r, bucketerr.HTTPStatus, bucketerr.Other("invalid to principal"))
			return
		}
		if bucketErr := svc.AdminWithdraw(r.Context(), caller, req.Ledger, req.Amount, to); bucketErr != nil {
			httprpc.WriteErr(w, r, bucketerr.HTTPStatus, bucketErr)
			return
		}
		httprpc.WriteOk(w, r, struct{}{})
	}
}

func statHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httprpc.WriteOk(w, r, map[string]string{"stat": svc.Stat()})
	}
}

func getStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httprpc.WriteOk(w, r, svc.GetStatus())
	}
}
