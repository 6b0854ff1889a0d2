package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gearshare/gearshare-backend/internal/identity"
	"github.com/gearshare/gearshare-backend/internal/item"
	"github.com/gearshare/gearshare-backend/internal/pkg/request"
	"github.com/gearshare/gearshare-backend/internal/pkg/response"
)

type Handler struct {
	service item.Service
}

func NewHandler(service item.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	ownerID := identity.UserID(c)
	it, err := h.service.Create(c.Request.Context(), ownerID, item.CreateRequest{
		Name:        body.Name,
		Description: body.Description,
		Available:   body.Available,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewItemResponse(it))
}

func (h *Handler) Update(c *gin.Context) {
	itemID, err := request.PathID(c, "itemId")
	if err != nil {
		response.Error(c, err)
		return
	}

	var body UpdateItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	ownerID := identity.UserID(c)
	it, err := h.service.Update(c.Request.Context(), ownerID, itemID, item.UpdateRequest{
		Name:        body.Name,
		Description: body.Description,
		Available:   body.Available,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewItemResponse(it))
}

func (h *Handler) Get(c *gin.Context) {
	itemID, err := request.PathID(c, "itemId")
	if err != nil {
		response.Error(c, err)
		return
	}

	detail, err := h.service.GetByID(c.Request.Context(), identity.UserID(c), itemID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewItemDetailResponse(detail))
}

func (h *Handler) ListByOwner(c *gin.Context) {
	details, err := h.service.GetAllByOwner(c.Request.Context(), identity.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ItemDetailResponse, len(details))
	for i, d := range details {
		items[i] = NewItemDetailResponse(d)
	}

	c.JSON(http.StatusOK, items)
}

func (h *Handler) Search(c *gin.Context) {
	text := c.Query("text")

	found, err := h.service.Search(c.Request.Context(), identity.UserID(c), text)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ItemResponse, len(found))
	for i, it := range found {
		items[i] = NewItemResponse(it)
	}

	c.JSON(http.StatusOK, items)
}

func (h *Handler) AddComment(c *gin.Context) {
	itemID, err := request.PathID(c, "itemId")
	if err != nil {
		response.Error(c, err)
		return
	}

	var body CreateCommentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	cm, err := h.service.AddComment(c.Request.Context(), identity.UserID(c), itemID, body.Text)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewCommentResponse(cm))
}
