package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/freelance-ledger/internal/db"
	"github.com/ignatzorin/freelance-ledger/internal/logger"
	"github.com/ignatzorin/freelance-ledger/internal/models"
	"github.com/ignatzorin/freelance-ledger/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-ledger/internal/repository/common"
)

// depositRatio - доля неоплаченных работ, которую клиент может внести за один раз.
var depositRatio = decimal.New(25, -2)

type BalanceService struct {
	profiles ProfileRepository
	jobs     JobRepository
	tx       db.TxRunner
	notifier Notifier
}

func NewBalanceService(profiles ProfileRepository, jobs JobRepository, tx db.TxRunner, notifier Notifier) *BalanceService {
	return &BalanceService{profiles: profiles, jobs: jobs, tx: tx, notifier: notifier}
}

// AllowedDepositLimit возвращает максимальную сумму одного пополнения.
func AllowedDepositLimit(outstanding decimal.Decimal) decimal.Decimal {
	return outstanding.Mul(depositRatio)
}

// DepositFunds пополняет баланс клиента не больше чем на 25% от суммы его неоплаченных работ.
// Строка профиля блокируется FOR UPDATE, поэтому пополнения одного клиента выполняются по очереди.
func (s *BalanceService) DepositFunds(ctx context.Context, client *models.Profile, amount decimal.Decimal) (*models.Profile, error) {
	if err := validateAmount("amount", amount); err != nil {
		return nil, err
	}

	var updated *models.Profile
	err := s.tx.WithTx(ctx, func(tx db.Querier) error {
		if _, err := s.profiles.LockByID(ctx, tx, client.ID); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return apperror.ErrProfileNotFound
			}
			return err
		}

		outstanding, err := s.jobs.SumOutstandingForClient(ctx, tx, client.ID)
		if err != nil {
			return err
		}

		limit := AllowedDepositLimit(outstanding)
		if amount.GreaterThan(limit) {
			if outstanding.IsZero() {
				return apperror.ErrNoOutstandingPayment
			}
			return apperror.Newf(apperror.ErrCodePreconditionFailed,
				"You cannot deposit more than %s at once", limit.StringFixed(moneyScale))
		}

		profile, err := s.profiles.AdjustBalance(ctx, tx, client.ID, amount)
		if err != nil {
			return err
		}
		updated = profile
		return nil
	})
	if err != nil {
		if db.IsNumericOverflow(err) {
			return nil, apperror.ErrBalanceLimitExceeded
		}
		return nil, apperror.From(err)
	}

	logger.WithContext(ctx).WithFields(logrus.Fields{
		"amount":  amount.StringFixed(moneyScale),
		"balance": updated.Balance.StringFixed(moneyScale),
	}).Info("funds deposited")

	publishBalance(ctx, s.notifier, updated)
	return updated, nil
}
