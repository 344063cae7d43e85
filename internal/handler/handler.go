package handler

import (
	"encoding/json"
	"net/http"

	"github.com/editionssen/bookstore/internal/entities"
	"github.com/editionssen/bookstore/internal/middleware"
	"github.com/editionssen/bookstore/internal/models"
	"github.com/editionssen/bookstore/internal/payment"
	"github.com/editionssen/bookstore/internal/services/converter"
	"github.com/editionssen/bookstore/internal/storage"
	"github.com/editionssen/bookstore/internal/sweeper"
	"go.uber.org/zap"
)

type Handler struct {
	storage  storage.Storage
	sweeper  *sweeper.Sweeper
	payments *payment.Client
}

func NewHandler(storage storage.Storage, sweeper *sweeper.Sweeper, payments *payment.Client) *Handler {
	return &Handler{
		storage:  storage,
		sweeper:  sweeper,
		payments: payments,
	}
}

func (h *Handler) getUserIDFromReqContext(req *http.Request) string {
	userID, ok := req.Context().Value(middleware.UserIDKey{}).(string)
	if !ok {
		return ""
	}

	return userID
}

func (h *Handler) writeJSON(res http.ResponseWriter, status int, body any) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)

	jsonEncoder := json.NewEncoder(res)
	if err := jsonEncoder.Encode(body); err != nil {
		zap.L().Info("cannot encode response JSON body", zap.Error(err))
	}
}

func bookResponse(book entities.Book) models.BookResponse {
	response := models.BookResponse{
		Title:       book.Title,
		Slug:        book.Slug,
		Author:      book.Author,
		ISBN:        book.ISBN,
		Description: book.Description,
		Price:       converter.FormatPrice(book.PriceCents),
		InStock:     book.InStock(),
		Featured:    book.IsFeatured,
	}

	if book.IsOnSale() {
		response.SalePrice = converter.FormatPrice(book.DiscountCents)
	}

	if book.CategoryName.Valid {
		response.Category = book.CategoryName.String
	}

	return response
}
