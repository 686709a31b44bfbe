package tonapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testWallet = "0:aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	testAdmin  = "0:bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	otherAddr  = "0:cccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccc"
)

func transactionsJSON(destination, value string, utime int64) string {
	return fmt.Sprintf(`{
        "transactions": [
            {
                "utime": %d,
                "in_msg": {
                    "destination": "%s",
                    "value": "%s"
                }
            }
        ]
    }`, utime, destination, value)
}

func newTestServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.True(t, strings.HasPrefix(r.URL.Path, "/v1/blockchain/accounts/"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestClient_VerifyPayment(t *testing.T) {
	now := time.Now().Unix()

	tests := []struct {
		name     string
		body     string
		status   int
		amount   float64
		expected bool
	}{
		{
			name:     "matching recent payment",
			body:     transactionsJSON(testAdmin, "5000000000", now),
			status:   http.StatusOK,
			amount:   5,
			expected: true,
		},
		{
			name:     "overpayment still matches",
			body:     transactionsJSON(testAdmin, "7500000000", now),
			status:   http.StatusOK,
			amount:   5,
			expected: true,
		},
		{
			name:     "wrong destination",
			body:     transactionsJSON(otherAddr, "5000000000", now),
			status:   http.StatusOK,
			amount:   5,
			expected: false,
		},
		{
			name:     "amount below expected",
			body:     transactionsJSON(testAdmin, "3000000000", now),
			status:   http.StatusOK,
			amount:   5,
			expected: false,
		},
		{
			name:     "transaction too old",
			body:     transactionsJSON(testAdmin, "5000000000", time.Now().Add(-10*time.Minute).Unix()),
			status:   http.StatusOK,
			amount:   5,
			expected: false,
		},
		{
			name:     "unparseable value",
			body:     transactionsJSON(testAdmin, "lots", now),
			status:   http.StatusOK,
			amount:   5,
			expected: false,
		},
		{
			name:     "explorer error is inconclusive",
			body:     `{"error": "rate limited"}`,
			status:   http.StatusInternalServerError,
			amount:   5,
			expected: false,
		},
		{
			name:     "malformed response is inconclusive",
			body:     `{"transactions": [`,
			status:   http.StatusOK,
			amount:   5,
			expected: false,
		},
		{
			name:     "no transactions",
			body:     `{"transactions": []}`,
			status:   http.StatusOK,
			amount:   5,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, tt.body, tt.status)
			defer server.Close()

			client := NewClient(server.URL, "test-token")
			got := client.VerifyPayment(context.Background(), testWallet, tt.amount, testAdmin)

			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestClient_AccountTransactions(t *testing.T) {
	server := newTestServer(t, transactionsJSON(testAdmin, "1000000000", 1700000000), http.StatusOK)
	defer server.Close()

	client := NewClient(server.URL, "test-token")
	txs, err := client.AccountTransactions(context.Background(), testWallet, 10)

	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, int64(1700000000), txs[0].Utime)
	require.NotNil(t, txs[0].InMsg)
	assert.Equal(t, testAdmin, txs[0].InMsg.Destination)
	assert.Equal(t, "1000000000", txs[0].InMsg.Value)
}

func TestNormalizeAddress(t *testing.T) {
	t.Run("raw form is canonical", func(t *testing.T) {
		assert.Equal(t, testAdmin, NormalizeAddress(testAdmin))
	})

	t.Run("case differences collapse", func(t *testing.T) {
		upper := strings.ToUpper(testAdmin[2:])
		assert.Equal(t, testAdmin, NormalizeAddress("0:"+upper))
	})

	t.Run("unparseable strings pass through", func(t *testing.T) {
		assert.Equal(t, "not-an-address", NormalizeAddress("not-an-address"))
	})
}
