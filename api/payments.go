package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ukumbi/arenapay"
	model2 "github.com/ukumbi/arenapay/api/model"
	"github.com/ukumbi/arenapay/internal/apierror"
	"github.com/ukumbi/arenapay/model"
)

// callbackProcessTimeout bounds background callback processing; the request
// context is gone by the time processing runs.
const callbackProcessTimeout = 30 * time.Second

// InitiatePayment triggers the STK push. With ?wait=true the request blocks
// until the payer acts, the wait window lapses or the client disconnects;
// otherwise the pending attempt is returned immediately and the client polls
// GET /payments/:id.
func (a Api) InitiatePayment(c *gin.Context) {
	var newPayment model2.InitiatePayment
	if err := c.ShouldBindJSON(&newPayment); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := newPayment.ValidateInitiatePayment(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	req := arenapay.InitiatePaymentRequest{
		TournamentID: newPayment.TournamentID,
		PlayerID:     newPayment.PlayerID,
		Phone:        newPayment.Phone,
		Amount:       newPayment.Amount,
	}

	if c.Query("wait") == "true" {
		session, err := a.arenapay.RequestPayment(c.Request.Context(), req)
		if err != nil {
			status := apierror.MapErrorToHTTPStatus(err)
			if session != nil {
				c.JSON(status, gin.H{"error": err.Error(), "session": session})
				return
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, session)
		return
	}

	attempt, err := a.arenapay.InitiatePayment(c.Request.Context(), req)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, attempt)
}

func (a Api) GetPayment(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.arenapay.GetPaymentAttempt(c.Request.Context(), id)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HandleGatewayCallback receives the gateway's push result. The gateway is
// acknowledged with 200 no matter what: an error response makes it retry and
// eventually blacklist the callback URL, and resolution failures are our
// problem, not the gateway's. Processing happens after the response is
// written.
func (a Api) HandleGatewayCallback(c *gin.Context) {
	var envelope model.STKCallbackEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		logrus.Warnf("discarding malformed gateway callback: %v", err)
		c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})

	result := envelope.Result()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), callbackProcessTimeout)
		defer cancel()
		if err := a.arenapay.ProcessCallback(ctx, result); err != nil {
			logrus.Errorf("callback processing failed for correlation %s: %v", result.CorrelationID, err)
		}
	}()
}
