package stripe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Zhima-Mochi/tshirt-agent/internal/domain/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Charge(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		wantErr      error
		wantAnyErr   bool
		wantChargeID string
	}{
		{
			name:         "succeeded",
			status:       http.StatusOK,
			body:         `{"id":"ch_123","status":"succeeded","paid":true}`,
			wantChargeID: "ch_123",
		},
		{
			name:    "card declined",
			status:  http.StatusPaymentRequired,
			body:    `{"error":{"type":"card_error","code":"card_declined","message":"Your card was declined."}}`,
			wantErr: payment.ErrDeclined,
		},
		{
			name:    "failed status",
			status:  http.StatusOK,
			body:    `{"id":"ch_124","status":"failed","paid":false}`,
			wantErr: payment.ErrDeclined,
		},
		{
			name:       "server error",
			status:     http.StatusInternalServerError,
			body:       `{"error":{"type":"api_error","message":"boom"}}`,
			wantAnyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/charges", r.URL.Path)
				assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
				assert.NoError(t, r.ParseForm())
				assert.Equal(t, "1", r.PostForm.Get("amount"))
				assert.Equal(t, "usd", r.PostForm.Get("currency"))
				assert.Equal(t, "tok_visa", r.PostForm.Get("source"))
				assert.Equal(t, "order-1", r.PostForm.Get("metadata[order_id]"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient("sk_test", srv.URL, srv.Client())
			res, err := c.Charge(context.Background(), payment.ChargeRequest{OrderID: "order-1", Amount: 1, Method: "tok_visa"})

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantAnyErr:
				require.Error(t, err)
				assert.NotErrorIs(t, err, payment.ErrDeclined)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantChargeID, res.ChargeID)
				assert.Equal(t, payment.StatusSuccess, res.Status)
			}
		})
	}
}

func TestMockProcessor(t *testing.T) {
	m := NewMockProcessor()

	res, err := m.Charge(context.Background(), payment.ChargeRequest{OrderID: "order-1", Amount: 99999, Method: "x"})
	require.NoError(t, err)
	assert.Equal(t, "ch_mock_order-1", res.ChargeID)
	assert.Equal(t, payment.StatusSuccess, res.Status)
	assert.Equal(t, int64(1), m.Charges())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.Charge(ctx, payment.ChargeRequest{OrderID: "order-1"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(1), m.Charges())
}
