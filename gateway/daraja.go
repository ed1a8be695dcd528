package gateway

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/ukumbi/arenapay/cache"
	"github.com/ukumbi/arenapay/config"
	"github.com/ukumbi/arenapay/internal/request"
	"github.com/ukumbi/arenapay/model"
)

const (
	tokenPath = "/oauth/v1/generate?grant_type=client_credentials"
	pushPath  = "/mpesa/stkpush/v1/processrequest"

	tokenCacheKey = "mpesa:access_token"

	// the provider rejects account references longer than this
	accountRefMaxLen = 12

	timestampLayout = "20060102150405"

	transactionType = "CustomerPayBillOnline"
)

// Daraja talks to the Safaricom Daraja API. Stateless apart from the token
// cache; the sandbox/production host comes from config, never inference.
type Daraja struct {
	conf       config.MpesaConfig
	tokenCache cache.Cache
	now        func() time.Time
}

func NewDaraja(conf config.MpesaConfig, tokenCache cache.Cache) *Daraja {
	return &Daraja{
		conf:       conf,
		tokenCache: tokenCache,
		now:        time.Now,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// stkPushPayload is the provider's wire contract. Field names must match
// byte for byte.
type stkPushPayload struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type stkPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
	ErrorCode           string `json:"errorCode"`
	ErrorMessage        string `json:"errorMessage"`
}

// AcquireToken returns a short-lived access token, from cache when one is
// still valid. Transport failures are retried with exponential backoff;
// credential rejections are not. The token value itself is never logged.
func (d *Daraja) AcquireToken(ctx context.Context) (string, error) {
	if d.tokenCache != nil {
		var cached string
		if err := d.tokenCache.Get(ctx, tokenCacheKey, &cached); err == nil && cached != "" {
			return cached, nil
		}
	}

	var body tokenResponse
	operation := func() error {
		req, err := http.NewRequest(http.MethodGet, d.conf.BaseURL()+tokenPath, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Basic "+request.BasicAuth(d.conf.ConsumerKey, d.conf.ConsumerSecret))

		resp, err := request.Call(ctx, req, &body)
		if err != nil {
			if resp != nil && resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return backoff.Permanent(&AuthError{Message: fmt.Sprintf("token endpoint returned %d", resp.StatusCode)})
			}
			return err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if resp.StatusCode >= 500 {
				return fmt.Errorf("token endpoint returned %d", resp.StatusCode)
			}
			return backoff.Permanent(&AuthError{Message: fmt.Sprintf("token endpoint returned %d", resp.StatusCode)})
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		if authErr, ok := err.(*AuthError); ok {
			return "", authErr
		}
		return "", &AuthError{Message: "token request failed", Err: err}
	}

	if body.AccessToken == "" {
		return "", &AuthError{Message: "token endpoint returned an empty token"}
	}

	if d.tokenCache != nil {
		ttl := tokenTTL(body.ExpiresIn)
		if err := d.tokenCache.Set(ctx, tokenCacheKey, body.AccessToken, ttl); err != nil {
			logrus.Warnf("failed to cache gateway token: %v", err)
		}
	}

	return body.AccessToken, nil
}

// tokenTTL converts the provider's expires_in (seconds, as a string) into a
// cache TTL with a safety margin so we never present an expired token.
func tokenTTL(expiresIn string) time.Duration {
	seconds, err := strconv.Atoi(expiresIn)
	if err != nil || seconds <= 60 {
		return 30 * time.Second
	}
	return time.Duration(seconds-60) * time.Second
}

// InitiateSTKPush submits a push-payment request and returns the correlation
// id the result callback will carry. The phone number is normalized before
// submission and the account reference is truncated to the provider's field
// limit.
func (d *Daraja) InitiateSTKPush(ctx context.Context, token string, push PushRequest) (*PushResponse, error) {
	phone, err := model.NormalizePhone(push.Phone)
	if err != nil {
		return nil, err
	}

	timestamp := d.now().Format(timestampLayout)
	payload := stkPushPayload{
		BusinessShortCode: d.conf.ShortCode,
		Password:          stkPassword(d.conf.ShortCode, d.conf.Passkey, timestamp),
		Timestamp:         timestamp,
		TransactionType:   transactionType,
		Amount:            push.Amount.Round(0).IntPart(),
		PartyA:            phone,
		PartyB:            d.conf.ShortCode,
		PhoneNumber:       phone,
		CallBackURL:       d.conf.CallbackURL,
		AccountReference:  truncate(push.AccountReference, accountRefMaxLen),
		TransactionDesc:   push.Description,
	}

	body, err := request.ToJSONReq(&payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, d.conf.BaseURL()+pushPath, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", request.BearerAuth(token))

	var pushResp stkPushResponse
	resp, err := request.Call(ctx, req, &pushResp)
	if err != nil {
		return nil, fmt.Errorf("push request failed: %w", err)
	}

	if pushResp.ErrorCode != "" {
		return nil, &GatewayError{Code: pushResp.ErrorCode, Description: pushResp.ErrorMessage}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &GatewayError{Code: strconv.Itoa(resp.StatusCode), Description: pushResp.ResponseDescription}
	}
	if pushResp.ResponseCode != "0" {
		return nil, &GatewayError{Code: pushResp.ResponseCode, Description: pushResp.ResponseDescription}
	}

	logrus.Infof("stk push accepted, correlation id %s", pushResp.CheckoutRequestID)

	return &PushResponse{
		CorrelationID:       pushResp.CheckoutRequestID,
		MerchantRequestID:   pushResp.MerchantRequestID,
		ResponseDescription: pushResp.ResponseDescription,
		CustomerMessage:     pushResp.CustomerMessage,
	}, nil
}

// stkPassword derives the provider-specific request password. The scheme is
// fixed by the provider: base64(shortCode + passkey + timestamp).
func stkPassword(shortCode, passkey, timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(shortCode + passkey + timestamp))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
