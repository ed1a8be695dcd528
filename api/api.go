package api

import (
	"github.com/gin-gonic/gin"

	"github.com/ukumbi/arenapay"
	"github.com/ukumbi/arenapay/api/middleware"
	"github.com/ukumbi/arenapay/config"
)

type Api struct {
	arenapay *arenapay.Arenapay
	router   *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router
	router.POST("/tournaments", a.CreateTournament)
	router.GET("/tournaments", a.GetOpenTournaments)
	router.GET("/tournaments/:id", a.GetTournament)

	router.POST("/tournaments/:id/registrations", a.RegisterForTournament)
	router.GET("/tournaments/:id/registrations", a.GetRegistrations)
	router.GET("/tournaments/:id/registrations/:player_id", a.GetRegistration)
	router.PUT("/tournaments/:id/registrations/:player_id/approve", a.ApproveRegistration)

	router.POST("/payments", a.InitiatePayment)
	router.GET("/payments/:id", a.GetPayment)
	router.POST("/payments/callback", a.HandleGatewayCallback)

	router.POST("/feedback", a.SubmitFeedback)
	router.GET("/feedback", a.GetAllFeedback)
	return a.router
}

func NewAPI(service *arenapay.Arenapay) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	r.Use(middleware.RateLimitMiddleware(conf))
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	return &Api{arenapay: service, router: r}
}
