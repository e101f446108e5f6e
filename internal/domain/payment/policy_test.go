package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCeilingPolicy_Check(t *testing.T) {
	policy := DefaultCeilingPolicy()

	tests := []struct {
		name         string
		amount       float64
		method       string
		wantBypassed bool
		wantErr      error
	}{
		{name: "under limit", amount: 0.01, method: "tok_visa"},
		{name: "exactly at limit", amount: 5.00, method: "tok_visa"},
		{name: "over limit", amount: 5.01, method: "tok_visa", wantErr: ErrLimitExceeded},
		{name: "fraction of a cent over limit", amount: 5.004, method: "tok_visa", wantErr: ErrLimitExceeded},
		{name: "large amount rejected", amount: 1000, method: "tok_visa", wantErr: ErrLimitExceeded},
		{name: "beyond int64 cents rejected", amount: 1e20, method: "tok_visa", wantErr: ErrLimitExceeded},
		{name: "bypass keyword", amount: 20, method: "tok_bypass_visa", wantBypassed: true},
		{name: "bypass keyword any case", amount: 20, method: "tok_BYPASS", wantBypassed: true},
		{name: "bypass under limit is not reported", amount: 1, method: "bypass"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bypassed, err := policy.Check(tt.amount, tt.method)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBypassed, bypassed)
		})
	}
}

func TestCeilingPolicy_ErrorMentionsLimit(t *testing.T) {
	_, err := DefaultCeilingPolicy().Check(10, "tok_visa")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "$5.00")
}

func TestCeilingPolicy_EmptyKeywordDisablesBypass(t *testing.T) {
	policy := CeilingPolicy{Limit: DefaultLimitCents}

	assert.False(t, policy.HasBypass("bypass"))
	_, err := policy.Check(10, "tok_bypass")
	assert.ErrorIs(t, err, ErrLimitExceeded)
}

func TestValidateMethod(t *testing.T) {
	assert.ErrorIs(t, ValidateMethod(""), ErrInvalidMethod)
	assert.ErrorIs(t, ValidateMethod("abc"), ErrInvalidMethod)
	assert.NoError(t, ValidateMethod("abcd"))
	assert.NoError(t, ValidateMethod("tok_visa"))
}
