package model

import "fmt"

// receiptMetadataKey is the named item the gateway uses for the payer's
// receipt number in a successful callback.
const receiptMetadataKey = "MpesaReceiptNumber"

// STKCallbackEnvelope matches the gateway's push-result payload byte for
// byte. The interesting fields sit inside a nested result object together
// with an array of named key/value metadata items.
type STKCallbackEnvelope struct {
	Body struct {
		STKCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  struct {
				Item []CallbackItem `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

type CallbackItem struct {
	Name  string      `json:"Name"`
	Value interface{} `json:"Value"`
}

// CallbackResult is the flattened form of the envelope used by everything
// past the parse boundary. The metadata item list is folded into a map here
// so downstream code looks values up by key instead of scanning.
type CallbackResult struct {
	CorrelationID string                 `json:"correlation_id"`
	ResultCode    int                    `json:"result_code"`
	ResultDesc    string                 `json:"result_desc"`
	MetaData      map[string]interface{} `json:"meta_data"`
}

// Result flattens the envelope into a CallbackResult.
func (e *STKCallbackEnvelope) Result() CallbackResult {
	cb := e.Body.STKCallback
	meta := make(map[string]interface{}, len(cb.CallbackMetadata.Item))
	for _, item := range cb.CallbackMetadata.Item {
		meta[item.Name] = item.Value
	}
	return CallbackResult{
		CorrelationID: cb.CheckoutRequestID,
		ResultCode:    cb.ResultCode,
		ResultDesc:    cb.ResultDesc,
		MetaData:      meta,
	}
}

// Succeeded reports whether the gateway resolved the prompt successfully.
// Any non-zero result code is a failure (1032 is the payer cancelling).
func (r CallbackResult) Succeeded() bool {
	return r.ResultCode == 0
}

// ReceiptReference returns the payer receipt number from the callback
// metadata, or an empty string when the callback carries none.
func (r CallbackResult) ReceiptReference() string {
	value, ok := r.MetaData[receiptMetadataKey]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%v", value)
}

// Outcome converts the callback result into the terminal fields to apply to
// the matching PaymentAttempt.
func (r CallbackResult) Outcome() PaymentOutcome {
	if r.Succeeded() {
		return PaymentOutcome{
			Status:           StatusCompleted,
			ReceiptReference: r.ReceiptReference(),
		}
	}
	return PaymentOutcome{
		Status:        StatusFailed,
		FailureReason: fmt.Sprintf("%d: %s", r.ResultCode, r.ResultDesc),
	}
}
