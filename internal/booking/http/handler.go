package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gearshare/gearshare-backend/internal/booking"
	"github.com/gearshare/gearshare-backend/internal/identity"
	"github.com/gearshare/gearshare-backend/internal/pkg/request"
	"github.com/gearshare/gearshare-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	b, err := h.service.Create(c.Request.Context(), identity.UserID(c), booking.CreateRequest{
		ItemID: body.ItemID,
		Start:  body.Start,
		End:    body.End,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

func (h *Handler) Approve(c *gin.Context) {
	bookingID, err := request.PathID(c, "bookingId")
	if err != nil {
		response.Error(c, err)
		return
	}

	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "approved must be true or false"})
		return
	}

	b, err := h.service.Approve(c.Request.Context(), identity.UserID(c), bookingID, approved)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Get(c *gin.Context) {
	bookingID, err := request.PathID(c, "bookingId")
	if err != nil {
		response.Error(c, err)
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), identity.UserID(c), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) ListByBooker(c *gin.Context) {
	state, err := booking.ParseState(c.DefaultQuery("state", "ALL"))
	if err != nil {
		response.Error(c, err)
		return
	}

	bookings, err := h.service.ListByBooker(c.Request.Context(), identity.UserID(c), state)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponses(bookings))
}

func (h *Handler) ListByOwner(c *gin.Context) {
	state, err := booking.ParseState(c.DefaultQuery("state", "ALL"))
	if err != nil {
		response.Error(c, err)
		return
	}

	bookings, err := h.service.ListByOwner(c.Request.Context(), identity.UserID(c), state)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponses(bookings))
}

func toResponses(bookings []*booking.Booking) []BookingResponse {
	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	return items
}
