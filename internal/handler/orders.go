package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/editionssen/bookstore/internal/entities"
	"github.com/editionssen/bookstore/internal/models"
	"github.com/editionssen/bookstore/internal/services/converter"
	"github.com/editionssen/bookstore/internal/services/ordernumber"
	"github.com/editionssen/bookstore/internal/services/pricing"
	"github.com/editionssen/bookstore/internal/services/validation"
	"github.com/editionssen/bookstore/internal/storage"
	"github.com/go-chi/chi"
	"go.uber.org/zap"
)

// Checkout turns the user's cart into a pending order. Stock decrement,
// order, items and cart clearing are one storage transaction; right after
// a successful creation the expiry sweep guard runs so stale orders get
// cleaned up on write traffic too.
func (h *Handler) Checkout(res http.ResponseWriter, req *http.Request) {
	userID := h.getUserIDFromReqContext(req)
	if userID == "" {
		res.WriteHeader(http.StatusUnauthorized)
		return
	}

	lines, err := h.storage.GetCartLines(req.Context(), userID)
	if err != nil {
		zap.L().Info("error get cart lines", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	if len(lines) == 0 {
		zap.L().Info("checkout with empty cart", zap.String("UserID", userID))

		res.WriteHeader(http.StatusBadRequest)
		return
	}

	totals := pricing.TotalsFor(lines)

	order := entities.Order{
		Number:        ordernumber.New(),
		UserID:        userID,
		SubtotalCents: totals.FinalCents,
	}

	payable := totals.FinalCents

	promo, err := h.cartPromoCode(req.Context(), userID, totals.FinalCents)
	if err != nil {
		zap.L().Info("error get cart promo code", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	if promo != nil {
		order.PromoCodeID = sql.NullString{String: promo.ID, Valid: true}
		order.PromoDiscountCents = promo.DiscountCents(totals.FinalCents)
		payable -= order.PromoDiscountCents
	}

	order.ShippingCents = pricing.ShippingCents(payable)
	order.TotalCents = payable + order.ShippingCents

	items := make([]entities.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, entities.OrderItem{
			BookID:     line.Book.ID,
			Quantity:   line.Quantity,
			UnitCents:  line.Book.DisplayPriceCents(),
			TotalCents: line.TotalCents(),
		})
	}

	order, err = h.storage.CreateOrder(req.Context(), order, items)
	if err != nil {
		if errors.Is(err, storage.ErrInsufficientStock) {
			zap.L().Info("error not enough stock for order", zap.String("UserID", userID))

			res.WriteHeader(http.StatusConflict)
			return
		}

		if errors.Is(err, storage.ErrConflict) {
			zap.L().Info("error create order conflict", zap.String("UserID", userID))

			res.WriteHeader(http.StatusConflict)
			return
		}

		zap.L().Info("error create order", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.sweeper.OnOrderCreated(req.Context())

	h.writeJSON(res, http.StatusCreated, orderResponse(order))
}

func (h *Handler) GetOrders(res http.ResponseWriter, req *http.Request) {
	userID := h.getUserIDFromReqContext(req)
	if userID == "" {
		res.WriteHeader(http.StatusUnauthorized)
		return
	}

	orders, err := h.storage.GetUserOrders(req.Context(), userID)
	if err != nil {
		zap.L().Info("error get user orders from database", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	if len(orders) == 0 {
		zap.L().Info("empty user orders", zap.String("UserID", userID))

		res.WriteHeader(http.StatusNoContent)
		return
	}

	responseOrders := make(models.GetOrdersResponse, 0, len(orders))
	for _, order := range orders {
		responseOrders = append(responseOrders, orderResponse(order))
	}

	h.writeJSON(res, http.StatusOK, responseOrders)
}

func (h *Handler) GetOrder(res http.ResponseWriter, req *http.Request) {
	order, ok := h.userOrderFromRequest(res, req)
	if !ok {
		return
	}

	items, err := h.storage.GetOrderItems(req.Context(), order.ID)
	if err != nil {
		zap.L().Info("error get order items", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	history, err := h.storage.GetOrderHistory(req.Context(), order.ID)
	if err != nil {
		zap.L().Info("error get order history", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	response := models.OrderDetailResponse{
		OrderResponse: orderResponse(order),
		Items:         make([]models.OrderItemResponse, 0, len(items)),
		History:       make([]models.OrderHistoryResponse, 0, len(history)),
	}

	for _, item := range items {
		response.Items = append(response.Items, models.OrderItemResponse{
			BookID:    item.BookID,
			Quantity:  item.Quantity,
			UnitPrice: converter.FormatPrice(item.UnitCents),
			Total:     converter.FormatPrice(item.TotalCents),
		})
	}

	for _, entry := range history {
		response.History = append(response.History, models.OrderHistoryResponse{
			OldStatus: entry.OldStatus,
			NewStatus: entry.NewStatus,
			ChangedBy: entry.ChangedBy,
			Note:      entry.Note,
			CreatedAt: entry.CreatedAt.Format(time.RFC3339),
		})
	}

	h.writeJSON(res, http.StatusOK, response)
}

func (h *Handler) CancelOrder(res http.ResponseWriter, req *http.Request) {
	order, ok := h.userOrderFromRequest(res, req)
	if !ok {
		return
	}

	if order.PaymentStatus != entities.PaymentStatusPending {
		zap.L().Info("error cancel order with non-pending payment", zap.String("number", order.Number))

		res.WriteHeader(http.StatusConflict)
		return
	}

	err := h.storage.CancelOrder(req.Context(), order, order.UserID, "cancelled by customer")
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			res.WriteHeader(http.StatusConflict)
			return
		}

		zap.L().Info("error cancel order", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	res.WriteHeader(http.StatusOK)
}

func (h *Handler) PayOrder(res http.ResponseWriter, req *http.Request) {
	order, ok := h.userOrderFromRequest(res, req)
	if !ok {
		return
	}

	if order.PaymentStatus != entities.PaymentStatusPending {
		res.WriteHeader(http.StatusConflict)
		return
	}

	payment, err := h.payments.CreatePayment(req.Context(), order.Number, order.TotalCents)
	if err != nil {
		zap.L().Info("error create payment", zap.Error(err))

		res.WriteHeader(http.StatusBadGateway)
		return
	}

	h.writeJSON(res, http.StatusOK, models.PayOrderResponse{
		PaymentID:  payment.ID,
		ApproveURL: payment.ApproveURL,
	})
}

func (h *Handler) CaptureOrderPayment(res http.ResponseWriter, req *http.Request) {
	order, ok := h.userOrderFromRequest(res, req)
	if !ok {
		return
	}

	if order.PaymentStatus != entities.PaymentStatusPending {
		res.WriteHeader(http.StatusConflict)
		return
	}

	var requestModel models.CapturePaymentRequest

	jsonDecoder := json.NewDecoder(req.Body)
	if err := jsonDecoder.Decode(&requestModel); err != nil || requestModel.PaymentID == "" {
		zap.L().Info("cannot decode request to json", zap.Error(err))

		res.WriteHeader(http.StatusBadRequest)
		return
	}

	status, err := h.payments.CapturePayment(req.Context(), requestModel.PaymentID)
	if err != nil {
		zap.L().Info("error capture payment", zap.Error(err))

		res.WriteHeader(http.StatusBadGateway)
		return
	}

	if status != "COMPLETED" {
		zap.L().Info("payment capture not completed", zap.String("status", status))

		res.WriteHeader(http.StatusConflict)
		return
	}

	if err := h.storage.MarkOrderPaid(req.Context(), order, requestModel.PaymentID, "payment captured"); err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			res.WriteHeader(http.StatusConflict)
			return
		}

		zap.L().Info("error mark order paid", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	res.WriteHeader(http.StatusOK)
}

// userOrderFromRequest resolves the {number} URL parameter to an order
// owned by the authenticated user, writing the error status itself when it
// cannot.
func (h *Handler) userOrderFromRequest(res http.ResponseWriter, req *http.Request) (entities.Order, bool) {
	userID := h.getUserIDFromReqContext(req)
	if userID == "" {
		res.WriteHeader(http.StatusUnauthorized)
		return entities.Order{}, false
	}

	number := chi.URLParam(req, "number")

	if err := validation.LuhnValidate(number); err != nil {
		zap.L().Info("luhn validation failed", zap.Error(err))

		res.WriteHeader(http.StatusUnprocessableEntity)
		return entities.Order{}, false
	}

	order, err := h.storage.GetOrderByNumber(req.Context(), number)
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			res.WriteHeader(http.StatusNotFound)
			return entities.Order{}, false
		}

		zap.L().Info("error get order by number", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
		return entities.Order{}, false
	}

	if order.UserID != userID {
		res.WriteHeader(http.StatusForbidden)
		return entities.Order{}, false
	}

	return order, true
}

func orderResponse(order entities.Order) models.OrderResponse {
	return models.OrderResponse{
		Number:        order.Number,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		Subtotal:      converter.FormatPrice(order.SubtotalCents),
		PromoDiscount: converter.FormatPrice(order.PromoDiscountCents),
		Shipping:      converter.FormatPrice(order.ShippingCents),
		Total:         converter.FormatPrice(order.TotalCents),
		CreatedAt:     order.CreatedAt.Format(time.RFC3339),
	}
}
