package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedPrinter(json, quiet bool) (*Printer, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return &Printer{out: &out, errOut: &errOut, json: json, quiet: quiet}, &out, &errOut
}

func TestSuccessWritesToStdout(t *testing.T) {
	p, out, _ := newBufferedPrinter(false, false)
	p.Success("uploaded %s", "file.txt")
	assert.Contains(t, out.String(), "uploaded file.txt")
}

func TestSuccessSuppressedInJSONMode(t *testing.T) {
	p, out, _ := newBufferedPrinter(true, false)
	p.Success("uploaded")
	assert.Empty(t, out.String())
}

func TestSuccessSuppressedInQuietMode(t *testing.T) {
	p, out, _ := newBufferedPrinter(false, true)
	p.Success("uploaded")
	assert.Empty(t, out.String())
}

func TestErrorWritesToStderrEvenInQuietMode(t *testing.T) {
	p, _, errOut := newBufferedPrinter(false, true)
	p.Error("failed: %s", "boom")
	assert.Contains(t, errOut.String(), "failed: boom")
}

func TestErrorSuppressedInJSONMode(t *testing.T) {
	p, _, errOut := newBufferedPrinter(true, false)
	p.Error("failed")
	assert.Empty(t, errOut.String())
}

func TestKeyValueAndSectionRespectQuiet(t *testing.T) {
	p, out, _ := newBufferedPrinter(false, true)
	p.Section("Details")
	p.KeyValue("name", "value")
	assert.Empty(t, out.String())
}

func TestJSONEncodesValue(t *testing.T) {
	p, out, _ := newBufferedPrinter(true, false)
	require.NoError(t, p.JSON(map[string]string{"status": "ok"}))
	assert.Contains(t, out.String(), `"status": "ok"`)
}

func TestIsJSON(t *testing.T) {
	p, _, _ := newBufferedPrinter(true, false)
	assert.True(t, p.IsJSON())

	p2, _, _ := newBufferedPrinter(false, false)
	assert.False(t, p2.IsJSON())
}
