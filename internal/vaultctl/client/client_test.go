package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallDecodesOkEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/start_upload", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":{"upload_id":"abcd"}}`))
	}))
	defer server.Close()

	c := New(server.URL)
	var resp struct {
		UploadID string `json:"upload_id"`
	}
	err := c.Directory(context.Background(), "/v1/start_upload", map[string]string{"name": "f"}, &resp)
	require.NoError(t, err)
	assert.Equal(t, "abcd", resp.UploadID)
}

func TestCallReturnsRPCErrorOnErrEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"err":{"code":"quota_exceeded","message":"too big"}}`))
	}))
	defer server.Close()

	c := New(server.URL)
	err := c.Directory(context.Background(), "/v1/start_upload", nil, nil)
	require.Error(t, err)

	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, "quota_exceeded", rpcErr.Code)
	assert.Equal(t, "too big", rpcErr.Message)
	assert.Contains(t, rpcErr.Error(), "quota_exceeded")
}

func TestBucketCallsGivenBaseURL(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"ok":{}}`))
	}))
	defer server.Close()

	c := New("http://directory.invalid")
	err := c.Bucket(context.Background(), server.URL, "/v1/put_chunk", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "/v1/put_chunk", gotPath)
}

func TestNewTrimsTrailingSlash(t *testing.T) {
	c := New("http://example.local/")
	assert.Equal(t, "http://example.local", c.baseURL)
}

func TestCallRejectsUnmarshalableRequestBody(t *testing.T) {
	c := New("http://example.local")
	err := c.Directory(context.Background(), "/v1/x", make(chan int), nil)
	require.Error(t, err)
}

func TestCallPropagatesUnreachableServer(t *testing.T) {
	c := New("http://127.0.0.1:1")
	err := c.Directory(context.Background(), "/v1/x", nil, nil)
	require.Error(t, err)
}

func TestCallSendsJSONBody(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"ok":{}}`))
	}))
	defer server.Close()

	c := New(server.URL)
	err := c.Directory(context.Background(), "/v1/x", map[string]string{"caller": "ab"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ab", gotBody["caller"])
}
