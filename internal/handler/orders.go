package handler

import (
	"net/http"
	"time"

	"github.com/honeynil/CommodityDeskService/internal/models"
	service "github.com/honeynil/CommodityDeskService/internal/services"
	pkgerrors "github.com/honeynil/CommodityDeskService/pkg/errors"
	"github.com/shopspring/decimal"
)

type placeOrderRequest struct {
	UserID          int64  `json:"userId"`
	CommodityID     int64  `json:"commodityId" validate:"required"`
	TransactionType string `json:"transactionType" validate:"required"`
	Quantity        int64  `json:"quantity"`
}

type processOrderRequest struct {
	Status string `json:"status" validate:"required"`
}

// orderResponse keeps the older "price" and "timestamp" names next to the canonical ones.
type orderResponse struct {
	models.Order
	Price     decimal.Decimal `json:"price"`
	Timestamp time.Time       `json:"timestamp"`
}

func toOrderResponse(o *models.Order) orderResponse {
	return orderResponse{Order: *o, Price: o.PricePerUnit, Timestamp: o.CreatedAt}
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	id, err := actor(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	orders, err := h.orders.ListOrders(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]orderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderResponse(&orders[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := actor(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	orderID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	order, err := h.orders.GetOrder(r.Context(), id, orderID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	id, err := actor(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req placeOrderRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	typ, ok := models.ParseOrderType(req.TransactionType)
	if !ok {
		h.writeError(w, r, pkgerrors.ErrInvalidOrderType)
		return
	}

	order, err := h.orders.PlaceOrder(r.Context(), id, service.PlaceOrderRequest{
		UserID:      req.UserID,
		CommodityID: req.CommodityID,
		Type:        typ,
		Quantity:    req.Quantity,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (h *Handler) ProcessOrder(w http.ResponseWriter, r *http.Request) {
	id, err := actor(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	orderID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req processOrderRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	decision, ok := models.ParseDecision(req.Status)
	if !ok {
		h.writeError(w, r, pkgerrors.ErrInvalidDecision)
		return
	}

	order, err := h.orders.ProcessOrder(r.Context(), id, orderID, decision)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}
