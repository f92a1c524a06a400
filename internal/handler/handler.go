package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/honeynil/CommodityDeskService/internal/infrastructure/auth"
	"github.com/honeynil/CommodityDeskService/internal/models"
	service "github.com/honeynil/CommodityDeskService/internal/services"
	pkgerrors "github.com/honeynil/CommodityDeskService/pkg/errors"
	"github.com/honeynil/CommodityDeskService/pkg/validator"
)

type Services struct {
	Auth          *service.AuthService
	Users         *service.UserDirectory
	Pricing       *service.PricingStore
	Ledger        *service.Ledger
	Orders        *service.OrderEngine
	Notifications *service.NotificationService
}

type Handler struct {
	auth          *service.AuthService
	users         *service.UserDirectory
	pricing       *service.PricingStore
	ledger        *service.Ledger
	orders        *service.OrderEngine
	notifications *service.NotificationService
}

func NewHandler(s Services) *Handler {
	return &Handler{
		auth:          s.Auth,
		users:         s.Users,
		pricing:       s.Pricing,
		ledger:        s.Ledger,
		orders:        s.Orders,
		notifications: s.Notifications,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, pkgerrors.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, pkgerrors.ErrUnauthorized), errors.Is(err, pkgerrors.ErrUserInactive):
		return http.StatusForbidden
	case errors.Is(err, pkgerrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, pkgerrors.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, pkgerrors.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, pkgerrors.ErrOrderAlreadyProcessed), errors.Is(err, pkgerrors.ErrUsernameExists):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal server error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// decode reads a JSON body into dst and validates it.
func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed body: %v", pkgerrors.ErrInvalidInput, err)
	}
	return validator.Validate(dst)
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", pkgerrors.ErrInvalidInput, name)
	}
	return id, nil
}

func actor(r *http.Request) (models.Identity, error) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return models.Identity{}, auth.ErrInvalidToken
	}
	return id, nil
}

func (h *Handler) RegisterPublicRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
}

func (h *Handler) RegisterProtectedRoutes(r *mux.Router) {
	r.HandleFunc("/auth/logout", h.Logout).Methods(http.MethodPost)
	r.HandleFunc("/auth/me", h.Me).Methods(http.MethodGet)

	r.HandleFunc("/api/commodities", h.ListCommodities).Methods(http.MethodGet)
	r.HandleFunc("/api/commodities/{id}/price", h.UpdatePrice).Methods(http.MethodPut)

	r.HandleFunc("/api/transaction/orders", h.ListOrders).Methods(http.MethodGet)
	r.HandleFunc("/api/transaction/orders/{id}", h.GetOrder).Methods(http.MethodGet)
	r.HandleFunc("/api/transaction/orders/{id}/process", h.ProcessOrder).Methods(http.MethodPut)
	r.HandleFunc("/api/transaction/place", h.PlaceOrder).Methods(http.MethodPost)

	r.HandleFunc("/api/wallet/{userId}", h.GetBalance).Methods(http.MethodGet)
	r.HandleFunc("/api/wallet/{userId}/logs", h.WalletLogs).Methods(http.MethodGet)
	r.HandleFunc("/api/wallet/{userId}/update", h.UpdateWallet).Methods(http.MethodPut)

	r.HandleFunc("/api/admin/{adminId}/users", h.ListUsersOfAdmin).Methods(http.MethodGet)
	r.HandleFunc("/api/admin/{adminId}/create-user", h.AdminCreateUser).Methods(http.MethodPost)
	r.HandleFunc("/api/superadmin/users", h.ListUsers).Methods(http.MethodGet)
	r.HandleFunc("/api/superadmin/create-admin", h.CreateAdmin).Methods(http.MethodPost)
	r.HandleFunc("/api/superadmin/create-user", h.SuperAdminCreateUser).Methods(http.MethodPost)
	r.HandleFunc("/api/superadmin/admins", h.ListAdmins).Methods(http.MethodGet)
	r.HandleFunc("/api/superadmin/admins/{adminId}/details", h.AdminDetails).Methods(http.MethodGet)
	r.HandleFunc("/api/users/{id}/status", h.SetUserStatus).Methods(http.MethodPut)

	r.HandleFunc("/api/notifications/admin/{adminId}", h.ListNotifications).Methods(http.MethodGet)
	r.HandleFunc("/api/notifications/{id}/read", h.MarkNotificationRead).Methods(http.MethodPut)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
