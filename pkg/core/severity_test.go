package core_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/coffeelint/pkg/core"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in     string
		want   core.Severity
		wantOK bool
	}{
		{"error", core.SeverityError, true},
		{"WARNING", core.SeverityWarning, true},
		{"warn", core.SeverityWarning, true},
		{" info ", core.SeverityInfo, true},
		{"hint", core.SeverityHint, true},
		{"fatal", core.SeverityWarning, false},
		{"", core.SeverityWarning, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := core.ParseSeverity(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "error", core.SeverityError.String())
	assert.Equal(t, "hint", core.SeverityHint.String())
	assert.Equal(t, "unknown", core.Severity(42).String())
}

func TestSeverity_AtLeast(t *testing.T) {
	assert.True(t, core.SeverityError.AtLeast(core.SeverityWarning))
	assert.True(t, core.SeverityWarning.AtLeast(core.SeverityWarning))
	assert.False(t, core.SeverityInfo.AtLeast(core.SeverityWarning))
}

func TestSeverity_JSON(t *testing.T) {
	data, err := json.Marshal(map[string]core.Severity{"level": core.SeverityWarning})
	require.NoError(t, err)
	assert.JSONEq(t, `{"level":"warning"}`, string(data))

	var decoded map[string]core.Severity
	require.NoError(t, json.Unmarshal([]byte(`{"level":"info"}`), &decoded))
	assert.Equal(t, core.SeverityInfo, decoded["level"])

	err = json.Unmarshal([]byte(`{"level":"loud"}`), &decoded)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid severity")
}
