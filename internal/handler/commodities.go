package handler

import (
	"net/http"

	"github.com/shopspring/decimal"
)

type updatePriceRequest struct {
	Price *decimal.Decimal `json:"price" validate:"required"`
}

func (h *Handler) ListCommodities(w http.ResponseWriter, r *http.Request) {
	list, err := h.pricing.ListCommodities(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	id, err := actor(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	commodityID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req updatePriceRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	c, err := h.pricing.UpdatePriceAs(r.Context(), id, commodityID, *req.Price)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
