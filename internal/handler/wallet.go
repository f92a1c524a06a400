package handler

import (
	"net/http"

	"github.com/honeynil/CommodityDeskService/internal/models"
	pkgerrors "github.com/honeynil/CommodityDeskService/pkg/errors"
	"github.com/shopspring/decimal"
)

type updateWalletRequest struct {
	Amount    *decimal.Decimal `json:"amount" validate:"required"`
	Operation string           `json:"operation" validate:"required"`
}

type balanceResponse struct {
	UserID        int64           `json:"userId"`
	WalletBalance decimal.Decimal `json:"walletBalance"`
}

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	id, err := actor(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	userID, err := pathID(r, "userId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	balance, err := h.ledger.Balance(r.Context(), id, userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{UserID: userID, WalletBalance: balance})
}

func (h *Handler) WalletLogs(w http.ResponseWriter, r *http.Request) {
	id, err := actor(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	userID, err := pathID(r, "userId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	logs, err := h.ledger.Logs(r.Context(), id, userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (h *Handler) UpdateWallet(w http.ResponseWriter, r *http.Request) {
	id, err := actor(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	userID, err := pathID(r, "userId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req updateWalletRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	op, ok := models.ParseWalletOperation(req.Operation)
	if !ok {
		h.writeError(w, r, pkgerrors.ErrInvalidOperation)
		return
	}

	balance, err := h.ledger.Adjust(r.Context(), id, userID, *req.Amount, op)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{UserID: userID, WalletBalance: balance})
}
