package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/honeynil/CommodityDeskService/internal/infrastructure/auth"
	pkgerrors "github.com/honeynil/CommodityDeskService/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{pkgerrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{auth.ErrInvalidToken, http.StatusUnauthorized},
		{pkgerrors.ErrUnauthorized, http.StatusForbidden},
		{pkgerrors.ErrUserInactive, http.StatusForbidden},
		{pkgerrors.ErrOrderNotFound, http.StatusNotFound},
		{fmt.Errorf("lookup: %w", pkgerrors.ErrCommodityNotFound), http.StatusNotFound},
		{pkgerrors.ErrInvalidQuantity, http.StatusBadRequest},
		{pkgerrors.ErrInvalidDecision, http.StatusBadRequest},
		{pkgerrors.ErrInsufficientFunds, http.StatusUnprocessableEntity},
		{pkgerrors.ErrOrderAlreadyProcessed, http.StatusConflict},
		{pkgerrors.ErrUsernameExists, http.StatusConflict},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
