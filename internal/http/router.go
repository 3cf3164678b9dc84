// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"waybill/internal/http/handlers"
	"waybill/internal/http/middleware"
)

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(middleware.Recovery(s.logger), middleware.Logging(s.logger))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api", middleware.Auth(s.verifier))

	pricingHandler := handlers.NewPricingHandler(s.pricing)
	api.POST("/pricing/estimate", pricingHandler.Estimate)

	uploadHandler := handlers.NewUploadHandler(s.uploads)
	api.POST("/uploads/presign", uploadHandler.Presign)

	clients := api.Group("", middleware.RequireRole("client"))
	orderHandler := handlers.NewOrderHandler(s.orders)
	clients.POST("/orders", orderHandler.Create)
	clients.GET("/orders/drafts", orderHandler.ListDrafts)
	clients.GET("/orders/:id", orderHandler.Get)

	wizardHandler := handlers.NewOrderWizardHandler(s.orders)
	clients.POST("/order-wizard", wizardHandler.Start)
	clients.GET("/order-wizard/:id", wizardHandler.Get)
	clients.PATCH("/order-wizard/:id/sections/:section", wizardHandler.Patch)
	clients.POST("/order-wizard/:id/next", wizardHandler.Next)
	clients.POST("/order-wizard/:id/previous", wizardHandler.Previous)
	clients.POST("/order-wizard/:id/jump", wizardHandler.Jump)
	clients.POST("/order-wizard/:id/estimate", wizardHandler.RefreshEstimate)
	clients.POST("/order-wizard/:id/submit", wizardHandler.Submit)
	clients.DELETE("/order-wizard/:id", wizardHandler.End)

	drivers := api.Group("/drivers", middleware.RequireRole("driver"))
	verificationHandler := handlers.NewVerificationHandler(s.verification)
	drivers.GET("/verification/requirements", verificationHandler.Requirements)
	drivers.POST("/verification", verificationHandler.Start)
	drivers.GET("/verification/:id", verificationHandler.Get)
	drivers.PATCH("/verification/:id/sections/:section", verificationHandler.Patch)
	drivers.POST("/verification/:id/next", verificationHandler.Next)
	drivers.POST("/verification/:id/previous", verificationHandler.Previous)
	drivers.POST("/verification/:id/jump", verificationHandler.Jump)
	drivers.POST("/verification/:id/submit", verificationHandler.Submit)
	drivers.DELETE("/verification/:id", verificationHandler.End)

	return r
}
