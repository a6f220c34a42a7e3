package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/chiromo-health/cmhs-backend/internal/config"
)

// MpesaClient talks to the Safaricom Daraja API. Credentials come from
// config at construction; the client never reads ambient state.
type MpesaClient struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	Shortcode      string
	Passkey        string
	HTTP           *http.Client

	now func() time.Time // overridable in tests
}

// STKPushResult is the gateway's synchronous answer to a payment push.
// ResponseCode "0" means the push was accepted; the final payment outcome
// arrives later on the callback URL.
type STKPushResult struct {
	MerchantRequestID string `json:"MerchantRequestID"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
	ResponseCode      string `json:"ResponseCode"`
	ResponseDesc      string `json:"ResponseDescription"`
	ErrorMessage      string `json:"errorMessage"`
}

// Accepted reports whether the gateway accepted the push. Anything other
// than the explicit success code counts as failure.
func (r *STKPushResult) Accepted() bool {
	return r != nil && r.ResponseCode == "0"
}

// NewMpesaClient builds a client from config with an explicit HTTP timeout.
func NewMpesaClient(cfg *config.Config) *MpesaClient {
	return &MpesaClient{
		BaseURL:        cfg.MpesaBaseURL,
		ConsumerKey:    cfg.MpesaConsumerKey,
		ConsumerSecret: cfg.MpesaConsumerSecret,
		Shortcode:      cfg.MpesaShortcode,
		Passkey:        cfg.MpesaPasskey,
		HTTP:           &http.Client{Timeout: 30 * time.Second},
		now:            time.Now,
	}
}

// GetAccessToken obtains an OAuth token via client credentials.
func (c *MpesaClient) GetAccessToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		strings.TrimSuffix(c.BaseURL, "/")+"/oauth/v1/generate?grant_type=client_credentials", nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.ConsumerKey, c.ConsumerSecret)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: auth returned status %d", ErrExternalService, resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrExternalService)
	}
	return body.AccessToken, nil
}

// STKPush initiates a payment push to the customer's phone. The returned
// result carries the CheckoutRequestID used to correlate the later callback.
func (c *MpesaClient) STKPush(ctx context.Context, phone string, amount int, callbackURL string) (*STKPushResult, error) {
	token, err := c.GetAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := c.now().Format("20060102150405")
	payload := map[string]interface{}{
		"BusinessShortCode": c.Shortcode,
		"Password":          stkPassword(c.Shortcode, c.Passkey, timestamp),
		"Timestamp":         timestamp,
		"TransactionType":   "CustomerPayBillOnline",
		"Amount":            amount,
		"PartyA":            NormalizePhone(phone),
		"PartyB":            c.Shortcode,
		"PhoneNumber":       NormalizePhone(phone),
		"CallBackURL":       callbackURL,
		"AccountReference":  "CMHS Health",
		"TransactionDesc":   "Premium Subscription",
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimSuffix(c.BaseURL, "/")+"/mpesa/stkpush/v1/processrequest", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	defer resp.Body.Close()

	var result STKPushResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	return &result, nil
}

// stkPassword derives the request password the Daraja API expects:
// base64(shortcode + passkey + timestamp).
func stkPassword(shortcode, passkey, timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(shortcode + passkey + timestamp))
}

// NormalizePhone converts a Kenyan phone number to the 254XXXXXXXXX format
// the gateway requires.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	phone = strings.ReplaceAll(phone, " ", "")
	switch {
	case strings.HasPrefix(phone, "+"):
		return phone[1:]
	case strings.HasPrefix(phone, "0"):
		return "254" + phone[1:]
	default:
		return phone
	}
}
