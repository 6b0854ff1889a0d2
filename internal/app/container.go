package app

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gearshare/gearshare-backend/internal/api"
	"github.com/gearshare/gearshare-backend/internal/booking"
	"github.com/gearshare/gearshare-backend/internal/clock"
	"github.com/gearshare/gearshare-backend/internal/item"
	"github.com/gearshare/gearshare-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	Clock        clock.Clock
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router *gin.Engine
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	clk := cfg.Clock
	if clk == nil {
		clk = clock.System{}
	}

	// User module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo)

	// Booking store comes first: the item module reads it for enrichment.
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)

	// Item module
	itemRepo := item.NewPgxRepository(cfg.DBPool)
	itemService := item.NewService(itemRepo, userService, booking.NewItemBookings(bookingRepo), clk)

	// Booking module
	bookingService := booking.NewService(bookingRepo, userService, itemService, clk)

	router := api.NewRouter(api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		UserService:    userService,
		ItemService:    itemService,
		BookingService: bookingService,
	})

	return &Container{Router: router}
}
