package directoryerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsIsMatchesByCode(t *testing.T) {
	wrapped := fmt.Errorf("during commit: %w", ErrFileNotFound)
	assert.True(t, errors.Is(wrapped, ErrFileNotFound))
	assert.False(t, errors.Is(wrapped, ErrUnauthorized))
}

func TestQuotaExceededCarriesFields(t *testing.T) {
	err := QuotaExceeded(9, 5, 10)
	assert.Equal(t, CodeQuotaExceeded, err.Code)
	assert.Equal(t, uint64(9), err.Used)
	assert.Equal(t, uint64(5), err.Requested)
	assert.Equal(t, uint64(10), err.Quota)
}

func TestUploadIncompleteCarriesFields(t *testing.T) {
	err := UploadIncomplete(1, 3)
	assert.Equal(t, CodeUploadIncomplete, err.Code)
	assert.Equal(t, uint32(1), err.Uploaded)
	assert.Equal(t, uint32(3), err.Expected)
}

func TestPaymentFailedCarriesMessage(t *testing.T) {
	err := PaymentFailed("insufficient cycles")
	assert.Contains(t, err.Error(), "insufficient cycles")
}
