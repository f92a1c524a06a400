package handler

import (
	"net/http"

	"github.com/honeynil/CommodityDeskService/internal/models"
	service "github.com/honeynil/CommodityDeskService/internal/services"
	pkgerrors "github.com/honeynil/CommodityDeskService/pkg/errors"
	"github.com/shopspring/decimal"
)

type createAccountRequest struct {
	Username      string          `json:"username" validate:"required,username"`
	Password      string          `json:"password" validate:"required,min=6"`
	Name          string          `json:"name" validate:"max=100"`
	Email         string          `json:"email" validate:"omitempty,email"`
	Mobile        string          `json:"mobile" validate:"omitempty,max=20"`
	WalletBalance decimal.Decimal `json:"walletBalance"`
	OwnerAdminID  *int64          `json:"ownerAdminId"`
}

func (req createAccountRequest) toService() service.CreateAccountRequest {
	return service.CreateAccountRequest{
		Username:       req.Username,
		Password:       req.Password,
		Name:           req.Name,
		Email:          req.Email,
		Mobile:         req.Mobile,
		InitialBalance: req.WalletBalance,
	}
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) writeUsers(w http.ResponseWriter, r *http.Request, users []models.User, err error) {
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	id, err := actor(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	users, err := h.users.ListUsers(r.Context(), id)
	h.writeUsers(w, r, users, err)
}

func (h *Handler) ListUsersOfAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := actor(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	adminID, err := pathID(r, "adminId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	users, err := h.users.ListUsersOfAdmin(r.Context(), id, adminID)
	h.writeUsers(w, r, users, err)
}

func (h *Handler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	id, err := actor(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	admins, err := h.users.ListAdmins(r.Context(), id)
	h.writeUsers(w, r, admins, err)
}

func (h *Handler) AdminDetails(w http.ResponseWriter, r *http.Request) {
	id, err := actor(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	adminID, err := pathID(r, "adminId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	details, err := h.users.AdminDetails(r.Context(), id, adminID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *Handler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := actor(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req createAccountRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	admin, err := h.users.CreateAdmin(r.Context(), id, req.toService())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, admin)
}

func (h *Handler) SuperAdminCreateUser(w http.ResponseWriter, r *http.Request) {
	id, err := actor(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req createAccountRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	user, err := h.users.CreateUser(r.Context(), id, req.OwnerAdminID, req.toService())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) AdminCreateUser(w http.ResponseWriter, r *http.Request) {
	id, err := actor(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	adminID, err := pathID(r, "adminId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req createAccountRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	user, err := h.users.CreateUser(r.Context(), id, &adminID, req.toService())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	id, err := actor(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	userID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req setStatusRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	status, ok := models.ParseUserStatus(req.Status)
	if !ok {
		h.writeError(w, r, pkgerrors.ErrInvalidStatus)
		return
	}
	user, err := h.users.SetStatus(r.Context(), id, userID, status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
