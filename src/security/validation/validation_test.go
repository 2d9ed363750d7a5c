// src/security/validation/validation_test.go
package validation

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/biaslens/src/logger"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

func TestSanitizeText_StripsHTML(t *testing.T) {
	assert.Equal(t, "hello", SanitizeText("<script>alert(1)</script>hello"))
	assert.Equal(t, "bold move", SanitizeText("<b>bold</b> move"))
	assert.Equal(t, "plain notes", SanitizeText("plain notes"))
}

func TestSanitizeForFormulaInjection(t *testing.T) {
	cases := map[string]string{
		"=SUM(A1:A2)":  "'=SUM(A1:A2)",
		"+1234":        "'+1234",
		"-cmd":         "'-cmd",
		"@import":      "'@import",
		"normal notes": "normal notes",
		"":             "",
		"  ":           "  ",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeForFormulaInjection(in), "input %q", in)
	}
}

func TestStripUnprintable(t *testing.T) {
	assert.Equal(t, "abc", StripUnprintable("a\x00b\x07c"))
	assert.Equal(t, "keep\ttabs\nand\rreturns", StripUnprintable("keep\ttabs\nand\rreturns"))
}

func TestValidateAssetSymbol(t *testing.T) {
	require.NoError(t, ValidateAssetSymbol("AAPL"))
	require.NoError(t, ValidateAssetSymbol("BRK.B"))
	require.NoError(t, ValidateAssetSymbol("BTC-USD"))
	require.NoError(t, ValidateAssetSymbol("EUR/USD"))

	assert.ErrorIs(t, ValidateAssetSymbol(""), ErrValidationFailed)
	assert.ErrorIs(t, ValidateAssetSymbol("AA PL"), ErrValidationFailed)
	assert.ErrorIs(t, ValidateAssetSymbol("<AAPL>"), ErrValidationFailed)
}

func TestValidateTradeAction(t *testing.T) {
	require.NoError(t, ValidateTradeAction("buy"))
	require.NoError(t, ValidateTradeAction(" SELL "))

	assert.ErrorIs(t, ValidateTradeAction("hold"), ErrValidationFailed)
	assert.ErrorIs(t, ValidateTradeAction(""), ErrValidationFailed)
}

func TestValidateUsername(t *testing.T) {
	require.NoError(t, ValidateUsername("trader_42"))
	require.NoError(t, ValidateUsername("jane.doe"))

	assert.ErrorIs(t, ValidateUsername(""), ErrValidationFailed)
	assert.ErrorIs(t, ValidateUsername("has spaces"), ErrValidationFailed)
	assert.ErrorIs(t, ValidateUsername("semi;colon"), ErrValidationFailed)
}

func TestCheckXSSPatterns(t *testing.T) {
	require.NoError(t, CheckXSSPatterns("bought the dip", "notes", "test"))

	assert.ErrorIs(t, CheckXSSPatterns("<script>alert(1)</script>", "notes", "test"), ErrValidationFailed)
	assert.ErrorIs(t, CheckXSSPatterns("x onerror=alert(1)", "notes", "test"), ErrValidationFailed)
	assert.ErrorIs(t, CheckXSSPatterns("javascript:void(0)", "notes", "test"), ErrValidationFailed)
}

func TestValidateFloatString(t *testing.T) {
	val, err := ValidateFloatString("12.5", "quantity", false, 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, 12.5, val)

	// Empty means "not provided".
	val, err = ValidateFloatString("", "quantity", false, 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, 0.0, val)

	_, err = ValidateFloatString("abc", "quantity", false, 0, 1000)
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = ValidateFloatString("-5", "quantity", false, 0, 1000)
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = ValidateFloatString("2000", "quantity", false, 0, 1000)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestValidateTimestampString(t *testing.T) {
	ts, err := ValidateTimestampString("2024-03-01T10:00:00Z", "timestamp")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), ts)

	_, err = ValidateTimestampString("01/03/2024", "timestamp")
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = ValidateTimestampString("", "timestamp")
	assert.ErrorIs(t, err, ErrValidationFailed)
}
