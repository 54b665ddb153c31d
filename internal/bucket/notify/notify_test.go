package notify

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopPublisherAlwaysSucceeds(t *testing.T) {
	var p NoopPublisher
	err := p.Publish(context.Background(), ChunkReport{DirectoryID: "ab", UploadID: "cd", ChunkIndex: 3})
	assert.NoError(t, err)
}

func TestChunkReportJSONRoundTrip(t *testing.T) {
	report := ChunkReport{DirectoryID: "aabbcc", UploadID: "001122", ChunkIndex: 7}

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded ChunkReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report, decoded)
}
