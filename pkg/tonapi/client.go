package tonapi

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"TON_rewards_miniapp/pkg/logger"
	"go.uber.org/zap"

	"github.com/goccy/go-json"
	"github.com/xssnick/tonutils-go/address"
)

const (
	DefaultBaseURL = "https://tonapi.io"

	// A matching transaction must have landed within this window of the check.
	paymentWindow = 5 * time.Minute

	transactionsLimit = 10
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{},
		baseURL:    baseURL,
		token:      token,
	}
}

type Transaction struct {
	Utime int64      `json:"utime"`
	InMsg *InMessage `json:"in_msg"`
}

type InMessage struct {
	Destination string `json:"destination"`
	Value       string `json:"value"` // nanoton, as a decimal string
}

type transactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}

func (c *Client) AccountTransactions(ctx context.Context, account string, limit int) ([]Transaction, error) {
	url := fmt.Sprintf("%s/v1/blockchain/accounts/%s/transactions?limit=%d", c.baseURL, account, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	var out transactionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return out.Transactions, nil
}

// VerifyPayment reports whether the account has a recent incoming-to-admin
// transaction of at least amountTON. Transport and parse failures log and
// count as "not yet confirmed" so callers can retry.
func (c *Client) VerifyPayment(ctx context.Context, fromAddress string, amountTON float64, toAddress string) bool {
	log := logger.Logger()

	txs, err := c.AccountTransactions(ctx, fromAddress, transactionsLimit)
	if err != nil {
		log.Info("payment verification inconclusive",
			zap.String("address", fromAddress),
			zap.Error(err))
		return false
	}

	admin := NormalizeAddress(toAddress)
	now := time.Now()

	for _, tx := range txs {
		if tx.InMsg == nil {
			continue
		}
		if NormalizeAddress(tx.InMsg.Destination) != admin {
			continue
		}

		nano, err := strconv.ParseInt(tx.InMsg.Value, 10, 64)
		if err != nil {
			continue
		}
		if float64(nano)/1e9 < amountTON {
			continue
		}

		if now.Sub(time.Unix(tx.Utime, 0)) >= paymentWindow {
			continue
		}

		return true
	}

	return false
}

// NormalizeAddress canonicalizes a TON address to its raw workchain:hex form
// so friendly and raw spellings of the same account compare equal. Strings
// that parse as neither form are returned unchanged and compare literally.
func NormalizeAddress(s string) string {
	a, err := address.ParseAddr(s)
	if err != nil {
		a, err = address.ParseRawAddr(s)
		if err != nil {
			return s
		}
	}
	return fmt.Sprintf("%d:%s", a.Workchain(), hex.EncodeToString(a.Data()))
}
