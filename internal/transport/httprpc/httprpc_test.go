package httprpc

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCodedError struct {
	code    string
	message string
}

func (e *fakeCodedError) Error() string     { return e.message }
func (e *fakeCodedError) ErrorCode() string { return e.code }

func statusForTest(code string) int {
	switch code {
	case "not_found":
		return http.StatusNotFound
	case "unauthorized":
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}

func TestWriteOkEncodesValueUnderOkKey(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/whatever", nil)

	WriteOk(rec, req, map[string]any{"uploadId": "abc123"})

	assert.Equal(t, http.StatusOK, rec.Code)
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.NotEmpty(t, env.Ok)
	assert.Empty(t, env.Err)

	var ok map[string]string
	require.NoError(t, json.Unmarshal(env.Ok, &ok))
	assert.Equal(t, "abc123", ok["uploadId"])
}

func TestWriteErrEncodesCodeAndMapsStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/whatever", nil)

	WriteErr(rec, req, statusForTest, &fakeCodedError{code: "not_found", message: "file not found"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Empty(t, env.Ok)

	var body ErrorBody
	require.NoError(t, json.Unmarshal(env.Err, &body))
	assert.Equal(t, "not_found", body.Code)
	assert.Equal(t, "file not found", body.Message)
}

func TestWriteErrWithDetailRoundTripsStructuredFields(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/whatever", nil)

	type quotaDetail struct {
		Used  uint64 `json:"used"`
		Quota uint64 `json:"quota"`
	}

	WriteErrWithDetail(rec, req, statusForTest, &fakeCodedError{code: "quota_exceeded", message: "quota exceeded"}, quotaDetail{Used: 900, Quota: 1000})

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var body ErrorBody
	require.NoError(t, json.Unmarshal(env.Err, &body))
	require.NotEmpty(t, body.Detail)

	var detail quotaDetail
	require.NoError(t, json.Unmarshal(body.Detail, &detail))
	assert.Equal(t, uint64(900), detail.Used)
	assert.Equal(t, uint64(1000), detail.Quota)
}

func TestDecodeJSONRejectsMalformedBody(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/whatever", bytes.NewBufferString("{not json"))

	var dst map[string]any
	ok := DecodeJSON(rec, req, &dst)

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var body ErrorBody
	require.NoError(t, json.Unmarshal(env.Err, &body))
	assert.Equal(t, "invalid_request", body.Code)
}

func TestDecodeJSONAcceptsValidBody(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/whatever", bytes.NewBufferString(`{"a":1}`))

	var dst struct {
		A int `json:"a"`
	}
	ok := DecodeJSON(rec, req, &dst)

	assert.True(t, ok)
	assert.Equal(t, 1, dst.A)
}
