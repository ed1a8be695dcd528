package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	model2 "github.com/ukumbi/arenapay/api/model"
	"github.com/ukumbi/arenapay/internal/apierror"
)

func (a Api) RegisterForTournament(c *gin.Context) {
	tournamentID, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var newRegistration model2.CreateRegistration
	if err := c.ShouldBindJSON(&newRegistration); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := newRegistration.ValidateCreateRegistration(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.arenapay.RegisterForTournament(c.Request.Context(), newRegistration.ToRegistration(tournamentID))
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (a Api) GetRegistration(c *gin.Context) {
	tournamentID, _ := c.Params.Get("id")
	playerID, _ := c.Params.Get("player_id")
	if tournamentID == "" || playerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tournament id and player id are required"})
		return
	}

	resp, err := a.arenapay.GetRegistration(c.Request.Context(), tournamentID, playerID)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) GetRegistrations(c *gin.Context) {
	tournamentID, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	limit, offset := pagination(c)
	resp, err := a.arenapay.ListRegistrations(c.Request.Context(), tournamentID, limit, offset)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) ApproveRegistration(c *gin.Context) {
	tournamentID, _ := c.Params.Get("id")
	playerID, _ := c.Params.Get("player_id")
	if tournamentID == "" || playerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tournament id and player id are required"})
		return
	}

	if err := a.arenapay.ApproveRegistration(c.Request.Context(), tournamentID, playerID); err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "registration approved"})
}
