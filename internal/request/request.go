package request

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"
)

// httpClient is shared by all outbound calls. The gateway occasionally sits
// on a request for a while, so the timeout is generous but bounded.
var httpClient = &http.Client{Timeout: 30 * time.Second}

// ToJSONReq serializes a payload into a buffer ready to be used as a JSON
// request body.
func ToJSONReq(payload interface{}) (*bytes.Buffer, error) {
	c, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return bytes.NewBuffer(c), nil
}

// Call sends the request and decodes the JSON response body into response.
// The raw *http.Response is returned so callers can inspect the status code;
// a decode error does not consume it.
func Call(ctx context.Context, req *http.Request, response interface{}) (*http.Response, error) {
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return resp, err
	}
	defer resp.Body.Close()

	err = json.NewDecoder(resp.Body).Decode(&response)
	if err != nil {
		return resp, err
	}
	return resp, nil
}

// BasicAuth returns the base64 form of "username:password" for an
// Authorization: Basic header.
func BasicAuth(username, password string) string {
	auth := username + ":" + password
	return base64.StdEncoding.EncodeToString([]byte(auth))
}

// BearerAuth returns the value for an Authorization header carrying a
// bearer token.
func BearerAuth(token string) string {
	return "Bearer " + token
}
