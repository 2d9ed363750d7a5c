// src/security/validation/file_validation_test.go
package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateClientContentType(t *testing.T) {
	require.NoError(t, ValidateClientContentType("text/csv"))
	require.NoError(t, ValidateClientContentType("text/csv; charset=utf-8"))
	require.NoError(t, ValidateClientContentType("application/vnd.ms-excel"))
	require.NoError(t, ValidateClientContentType("TEXT/PLAIN"))

	assert.Error(t, ValidateClientContentType("application/pdf"))
	assert.Error(t, ValidateClientContentType("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"))
	assert.Error(t, ValidateClientContentType(""))
}

func TestValidateFileContentByMagicBytes_AcceptsCSVText(t *testing.T) {
	reader := strings.NewReader("timestamp,action,asset,quantity,entry_price\n2024-03-01T10:00:00Z,buy,AAPL,1,100\n")

	detected, err := ValidateFileContentByMagicBytes(reader)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", detected)

	// The reader must be rewound for the parser.
	buf := make([]byte, 9)
	_, readErr := reader.Read(buf)
	require.NoError(t, readErr)
	assert.Equal(t, "timestamp", string(buf))
}

func TestValidateFileContentByMagicBytes_RejectsBinary(t *testing.T) {
	reader := strings.NewReader("MZ\x00\x00\x01binary payload")

	detected, err := ValidateFileContentByMagicBytes(reader)
	assert.Error(t, err)
	assert.Equal(t, "application/octet-stream", detected)
}

func TestValidateFileContentByMagicBytes_RejectsEmpty(t *testing.T) {
	_, err := ValidateFileContentByMagicBytes(strings.NewReader(""))
	assert.ErrorContains(t, err, "empty")
}

func TestValidateFileContentByMagicBytes_RejectsHTML(t *testing.T) {
	reader := strings.NewReader("<!DOCTYPE html><html><body>not a csv</body></html>")

	_, err := ValidateFileContentByMagicBytes(reader)
	assert.Error(t, err)
}
