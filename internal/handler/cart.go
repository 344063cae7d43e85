package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/editionssen/bookstore/internal/models"
	"github.com/editionssen/bookstore/internal/services/converter"
	"github.com/editionssen/bookstore/internal/services/pricing"
	"github.com/editionssen/bookstore/internal/storage"
	"github.com/go-chi/chi"
	"go.uber.org/zap"
)

func (h *Handler) GetCart(res http.ResponseWriter, req *http.Request) {
	userID := h.getUserIDFromReqContext(req)
	if userID == "" {
		res.WriteHeader(http.StatusUnauthorized)
		return
	}

	response, err := h.getCartResponse(req.Context(), userID)
	if err != nil {
		zap.L().Info("error build cart response", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.writeJSON(res, http.StatusOK, response)
}

func (h *Handler) getCartResponse(ctx context.Context, userID string) (models.GetCartResponse, error) {
	lines, err := h.storage.GetCartLines(ctx, userID)
	if err != nil {
		return models.GetCartResponse{}, err
	}

	totals := pricing.TotalsFor(lines)

	response := models.GetCartResponse{
		Items:    make([]models.CartLineResponse, 0, len(lines)),
		Total:    converter.FormatPrice(totals.TotalCents),
		Discount: converter.FormatPrice(totals.DiscountCents),
		Final:    converter.FormatPrice(totals.FinalCents),
	}

	for _, line := range lines {
		response.Items = append(response.Items, models.CartLineResponse{
			Book:      bookResponse(line.Book),
			Quantity:  line.Quantity,
			LineTotal: converter.FormatPrice(line.TotalCents()),
		})
	}

	promo, err := h.cartPromoCode(ctx, userID, totals.FinalCents)
	if err != nil {
		return models.GetCartResponse{}, err
	}

	if promo != nil {
		promoDiscount := promo.DiscountCents(totals.FinalCents)

		response.PromoCode = promo.Code
		response.PromoDiscount = converter.FormatPrice(promoDiscount)
		response.Final = converter.FormatPrice(totals.FinalCents - promoDiscount)
	}

	return response, nil
}

func (h *Handler) AddCartItem(res http.ResponseWriter, req *http.Request) {
	userID := h.getUserIDFromReqContext(req)
	if userID == "" {
		res.WriteHeader(http.StatusUnauthorized)
		return
	}

	var requestModel models.AddCartItemRequest

	jsonDecoder := json.NewDecoder(req.Body)
	if err := jsonDecoder.Decode(&requestModel); err != nil {
		zap.L().Info("cannot decode request to json", zap.Error(err))

		res.WriteHeader(http.StatusBadRequest)
		return
	}

	if requestModel.Quantity <= 0 || requestModel.BookSlug == "" {
		res.WriteHeader(http.StatusBadRequest)
		return
	}

	book, err := h.storage.GetBookBySlug(req.Context(), requestModel.BookSlug)
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			res.WriteHeader(http.StatusNotFound)
			return
		}

		zap.L().Info("error get book", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	if err := h.storage.AddCartItem(req.Context(), userID, book.ID, requestModel.Quantity); err != nil {
		if errors.Is(err, storage.ErrInsufficientStock) {
			zap.L().Info("error not enough stock for cart item", zap.String("book", book.Slug))

			res.WriteHeader(http.StatusConflict)
			return
		}

		zap.L().Info("error add cart item", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	res.WriteHeader(http.StatusOK)
}

func (h *Handler) UpdateCartItem(res http.ResponseWriter, req *http.Request) {
	userID := h.getUserIDFromReqContext(req)
	if userID == "" {
		res.WriteHeader(http.StatusUnauthorized)
		return
	}

	var requestModel models.UpdateCartItemRequest

	jsonDecoder := json.NewDecoder(req.Body)
	if err := jsonDecoder.Decode(&requestModel); err != nil {
		zap.L().Info("cannot decode request to json", zap.Error(err))

		res.WriteHeader(http.StatusBadRequest)
		return
	}

	if requestModel.Quantity <= 0 {
		res.WriteHeader(http.StatusBadRequest)
		return
	}

	err := h.storage.SetCartItemQuantity(req.Context(), userID, chi.URLParam(req, "bookID"), requestModel.Quantity)
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			res.WriteHeader(http.StatusNotFound)
			return
		}

		if errors.Is(err, storage.ErrInsufficientStock) {
			res.WriteHeader(http.StatusConflict)
			return
		}

		zap.L().Info("error update cart item", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	res.WriteHeader(http.StatusOK)
}

func (h *Handler) RemoveCartItem(res http.ResponseWriter, req *http.Request) {
	userID := h.getUserIDFromReqContext(req)
	if userID == "" {
		res.WriteHeader(http.StatusUnauthorized)
		return
	}

	err := h.storage.RemoveCartItem(req.Context(), userID, chi.URLParam(req, "bookID"))
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			res.WriteHeader(http.StatusNotFound)
			return
		}

		zap.L().Info("error remove cart item", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	res.WriteHeader(http.StatusOK)
}

func (h *Handler) ClearCart(res http.ResponseWriter, req *http.Request) {
	userID := h.getUserIDFromReqContext(req)
	if userID == "" {
		res.WriteHeader(http.StatusUnauthorized)
		return
	}

	if err := h.storage.ClearCart(req.Context(), userID); err != nil {
		zap.L().Info("error clear cart", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	res.WriteHeader(http.StatusOK)
}
