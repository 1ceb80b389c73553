package service

import (
	"context"

	"github.com/ignatzorin/freelance-ledger/internal/logger"
	"github.com/ignatzorin/freelance-ledger/internal/models"
)

// publishBalance отправляет событие balance.updated. Ошибки доставки только логируются.
func publishBalance(ctx context.Context, n Notifier, profile *models.Profile) {
	publish(ctx, n, profile.ID, models.EventBalanceUpdated, models.BalanceUpdate{
		ProfileID: profile.ID,
		Balance:   profile.Balance,
	})
}

func publish(ctx context.Context, n Notifier, profileID int64, event string, data any) {
	if n == nil {
		return
	}
	if err := n.BroadcastToUser(profileID, event, data); err != nil {
		logger.WithContext(ctx).WithError(err).WithField("event", event).Warn("notification dropped")
	}
}
