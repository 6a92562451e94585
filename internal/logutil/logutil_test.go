package logutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rainbowbrowser/internal/logutil"
)

func TestNew_DebugAndProduction_ReturnUsableLoggers(t *testing.T) {
	debugLog, err := logutil.New(true)
	require.NoError(t, err)
	assert.NotNil(t, debugLog)

	prodLog, err := logutil.New(false)
	require.NoError(t, err)
	assert.NotNil(t, prodLog)
}

func TestNop_ReturnsNonNilLogger(t *testing.T) {
	assert.NotNil(t, logutil.Nop())
}
