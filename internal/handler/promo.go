package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/editionssen/bookstore/internal/entities"
	"github.com/editionssen/bookstore/internal/models"
	"github.com/editionssen/bookstore/internal/services/pricing"
	"github.com/editionssen/bookstore/internal/storage"
	"go.uber.org/zap"
)

// ApplyPromoCode validates a promo code against the user's cart and
// attaches it. The redemption itself is only recorded when the order is
// created, so an applied code can still be removed or replaced.
func (h *Handler) ApplyPromoCode(res http.ResponseWriter, req *http.Request) {
	userID := h.getUserIDFromReqContext(req)
	if userID == "" {
		res.WriteHeader(http.StatusUnauthorized)
		return
	}

	var requestModel models.ApplyPromoCodeRequest

	jsonDecoder := json.NewDecoder(req.Body)
	if err := jsonDecoder.Decode(&requestModel); err != nil || requestModel.Code == "" {
		zap.L().Info("cannot decode request to json", zap.Error(err))

		res.WriteHeader(http.StatusBadRequest)
		return
	}

	promo, err := h.storage.GetPromoCodeByCode(req.Context(), strings.ToUpper(requestModel.Code))
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			res.WriteHeader(http.StatusNotFound)
			return
		}

		zap.L().Info("error get promo code", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	if !promo.Usable(time.Now()) {
		zap.L().Info("promo code not usable", zap.String("code", promo.Code))

		res.WriteHeader(http.StatusConflict)
		return
	}

	used, err := h.storage.PromoCodeUsedBy(req.Context(), promo.ID, userID)
	if err != nil {
		zap.L().Info("error check promo code use", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	if used {
		zap.L().Info("promo code already used", zap.String("code", promo.Code), zap.String("UserID", userID))

		res.WriteHeader(http.StatusConflict)
		return
	}

	lines, err := h.storage.GetCartLines(req.Context(), userID)
	if err != nil {
		zap.L().Info("error get cart lines", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	if pricing.TotalsFor(lines).FinalCents < promo.MinSubtotalCents {
		zap.L().Info("cart below promo code minimum", zap.String("code", promo.Code))

		res.WriteHeader(http.StatusConflict)
		return
	}

	if err := h.storage.ApplyPromoCode(req.Context(), userID, promo.ID); err != nil {
		zap.L().Info("error apply promo code", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
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

func (h *Handler) RemovePromoCode(res http.ResponseWriter, req *http.Request) {
	userID := h.getUserIDFromReqContext(req)
	if userID == "" {
		res.WriteHeader(http.StatusUnauthorized)
		return
	}

	if err := h.storage.RemovePromoCode(req.Context(), userID); err != nil {
		zap.L().Info("error remove promo code", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
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

// cartPromoCode returns the code applied to the user's cart when it is
// still usable and the subtotal meets its minimum, nil otherwise. A code
// that went stale between apply and checkout is silently dropped from the
// price rather than failing the request.
func (h *Handler) cartPromoCode(ctx context.Context, userID string, subtotalCents int) (*entities.PromoCode, error) {
	promo, err := h.storage.GetCartPromoCode(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	if !promo.Usable(time.Now()) || subtotalCents < promo.MinSubtotalCents {
		return nil, nil
	}

	return &promo, nil
}
