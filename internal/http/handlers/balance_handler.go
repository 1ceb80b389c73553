package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/freelance-ledger/internal/dto"
	"github.com/ignatzorin/freelance-ledger/internal/http/handlers/common"
	"github.com/ignatzorin/freelance-ledger/internal/logger"
	"github.com/ignatzorin/freelance-ledger/internal/models"
	"github.com/ignatzorin/freelance-ledger/internal/pkg/apperror"
)

type BalanceService interface {
	DepositFunds(ctx context.Context, client *models.Profile, amount decimal.Decimal) (*models.Profile, error)
}

type BalanceHandler struct {
	balances BalanceService
}

func NewBalanceHandler(balances BalanceService) *BalanceHandler {
	return &BalanceHandler{balances: balances}
}

// Deposit POST /balances/deposit/:user_id
func (h *BalanceHandler) Deposit(c *gin.Context) {
	profile, ok := common.MustProfile(c)
	if !ok {
		return
	}
	userID, err := common.ParseIDParam(c, "user_id")
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	if userID != profile.ID {
		common.RespondAppError(c, apperror.ErrForeignDeposit)
		return
	}

	var req dto.DepositRequest
	if !common.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	logger.WithContext(ctx).WithField("amount", req.Amount.String()).Debug("deposit: start")

	updated, err := h.balances.DepositFunds(ctx, profile, req.Amount)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	logger.WithContext(ctx).Debug("deposit: done")
	common.RespondSuccess(c, http.StatusOK, "Funds deposited successfully", updated)
}
