package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/editionssen/bookstore/internal/entities"
	"github.com/editionssen/bookstore/internal/models"
	"github.com/editionssen/bookstore/internal/services/converter"
	"github.com/editionssen/bookstore/internal/storage"
	"go.uber.org/zap"
)

// RequestRefund refunds a paid order through the payment provider and
// records the refund. Only the captured payment can be refunded, so the
// order must carry a payment id and still be in the paid state.
func (h *Handler) RequestRefund(res http.ResponseWriter, req *http.Request) {
	order, ok := h.userOrderFromRequest(res, req)
	if !ok {
		return
	}

	if order.PaymentStatus != entities.PaymentStatusPaid || !order.PaymentID.Valid {
		zap.L().Info("error refund order with non-paid payment", zap.String("number", order.Number))

		res.WriteHeader(http.StatusConflict)
		return
	}

	var requestModel models.RefundRequest

	jsonDecoder := json.NewDecoder(req.Body)
	if err := jsonDecoder.Decode(&requestModel); err != nil || requestModel.Reason == "" {
		zap.L().Info("cannot decode request to json", zap.Error(err))

		res.WriteHeader(http.StatusBadRequest)
		return
	}

	amountCents := converter.ConvertPrice(requestModel.Amount)
	if amountCents == 0 {
		amountCents = order.TotalCents
	}

	if amountCents < 0 || amountCents > order.TotalCents {
		res.WriteHeader(http.StatusBadRequest)
		return
	}

	providerRefundID, err := h.payments.RefundPayment(
		req.Context(),
		order.PaymentID.String,
		amountCents,
		"Refund for order "+order.Number,
	)
	if err != nil {
		zap.L().Info("error refund payment", zap.Error(err))

		res.WriteHeader(http.StatusBadGateway)
		return
	}

	refund := entities.Refund{
		OrderID:          order.ID,
		RequestedBy:      order.UserID,
		Reason:           requestModel.Reason,
		Description:      requestModel.Description,
		AmountCents:      amountCents,
		Status:           entities.RefundStatusProcessed,
		ProviderRefundID: providerRefundID,
	}

	if _, err := h.storage.CreateRefund(req.Context(), refund); err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			res.WriteHeader(http.StatusConflict)
			return
		}

		zap.L().Info("error create refund", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.writeJSON(res, http.StatusCreated, models.RefundResponse{
		OrderNumber: order.Number,
		Reason:      refund.Reason,
		Amount:      converter.FormatPrice(refund.AmountCents),
		Status:      refund.Status,
	})
}

func (h *Handler) GetRefunds(res http.ResponseWriter, req *http.Request) {
	userID := h.getUserIDFromReqContext(req)
	if userID == "" {
		res.WriteHeader(http.StatusUnauthorized)
		return
	}

	refunds, err := h.storage.GetUserRefunds(req.Context(), userID)
	if err != nil {
		zap.L().Info("error get user refunds from database", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	if len(refunds) == 0 {
		zap.L().Info("empty user refunds", zap.String("UserID", userID))

		res.WriteHeader(http.StatusNoContent)
		return
	}

	response := make(models.GetRefundsResponse, 0, len(refunds))
	for _, refund := range refunds {
		response = append(response, models.RefundResponse{
			OrderNumber: refund.OrderNumber,
			Reason:      refund.Reason,
			Amount:      converter.FormatPrice(refund.AmountCents),
			Status:      refund.Status,
			CreatedAt:   refund.CreatedAt.Format(time.RFC3339),
		})
	}

	h.writeJSON(res, http.StatusOK, response)
}
