package http

import (
	"time"

	"github.com/gearshare/gearshare-backend/internal/item"
)

type CreateItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Available   *bool  `json:"available" binding:"required"`
}

type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type ItemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     int64  `json:"ownerId"`
}

type BookingSummaryResponse struct {
	ID       int64 `json:"id"`
	BookerID int64 `json:"bookerId"`
}

type CommentResponse struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

type ItemDetailResponse struct {
	ItemResponse
	LastBooking *BookingSummaryResponse `json:"lastBooking"`
	NextBooking *BookingSummaryResponse `json:"nextBooking"`
	Comments    []CommentResponse       `json:"comments"`
}

func NewItemResponse(it *item.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		OwnerID:     it.OwnerID,
	}
}

func NewCommentResponse(cm *item.Comment) CommentResponse {
	return CommentResponse{
		ID:         cm.ID,
		Text:       cm.Text,
		AuthorName: cm.AuthorName,
		Created:    cm.Created,
	}
}

func NewItemDetailResponse(d *item.Detail) ItemDetailResponse {
	resp := ItemDetailResponse{
		ItemResponse: NewItemResponse(&d.Item),
		Comments:     make([]CommentResponse, len(d.Comments)),
	}
	for i, cm := range d.Comments {
		resp.Comments[i] = NewCommentResponse(cm)
	}
	if d.LastBooking != nil {
		resp.LastBooking = &BookingSummaryResponse{ID: d.LastBooking.ID, BookerID: d.LastBooking.BookerID}
	}
	if d.NextBooking != nil {
		resp.NextBooking = &BookingSummaryResponse{ID: d.NextBooking.ID, BookerID: d.NextBooking.BookerID}
	}
	return resp
}
