package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	model2 "github.com/ukumbi/arenapay/api/model"
	"github.com/ukumbi/arenapay/internal/apierror"
)

func (a Api) SubmitFeedback(c *gin.Context) {
	var newFeedback model2.CreateFeedback
	if err := c.ShouldBindJSON(&newFeedback); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := newFeedback.ValidateCreateFeedback(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.arenapay.SubmitFeedback(c.Request.Context(), newFeedback.ToFeedback())
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (a Api) GetAllFeedback(c *gin.Context) {
	limit, offset := pagination(c)
	resp, err := a.arenapay.ListFeedback(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
