package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/gearshare/gearshare-backend/internal/booking"
	bookingHttp "github.com/gearshare/gearshare-backend/internal/booking/http"
	"github.com/gearshare/gearshare-backend/internal/identity"
	"github.com/gearshare/gearshare-backend/internal/item"
	itemHttp "github.com/gearshare/gearshare-backend/internal/item/http"
	"github.com/gearshare/gearshare-backend/internal/user"
	userHttp "github.com/gearshare/gearshare-backend/internal/user/http"
)

// Config carries the services and settings the router needs.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	UserService    user.Service
	ItemService    item.Service
	BookingService booking.Service
}

// NewRouter initializes the HTTP router engine: middleware (logging, recovery,
// CORS, request ids, caller identity) and the routes of each module.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), RequestID())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", identity.UserIDHeader}
	r.Use(cors.New(corsConfig))

	identityMiddleware := identity.Required()

	userHandler := userHttp.NewHandler(cfg.UserService)
	itemHandler := itemHttp.NewHandler(cfg.ItemService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)

	root := r.Group("")
	{
		userHttp.RegisterRoutes(root, userHandler)
		itemHttp.RegisterRoutes(root, itemHandler, identityMiddleware)
		bookingHttp.RegisterRoutes(root, bookingHandler, identityMiddleware)
	}

	return r
}
