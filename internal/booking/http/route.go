package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, identityMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")

	group.Use(identityMiddleware)
	{
		group.POST("", h.Create)
		group.GET("", h.ListByBooker)
		group.GET("/owner", h.ListByOwner)
		group.GET("/:bookingId", h.Get)
		group.PATCH("/:bookingId", h.Approve)
	}
}
