package gateway

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"giro-settlement/internal/domain"
)

// LogNotifier writes claim notices to a log instead of sending e-mail.
type LogNotifier struct {
	logger *log.Logger
}

// NewLogNotifier logs to logger, or discards when it is nil.
func NewLogNotifier(logger *log.Logger) *LogNotifier {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &LogNotifier{logger: logger}
}

// NotifyClaim implements usecase.Notifier.
func (n *LogNotifier) NotifyClaim(ctx context.Context, due domain.DueAgreement, dueDate time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.logger.Printf("notifier: claim notice donor=%d email=%s kid=%s amount=%s due=%s",
		due.Donor.ID, due.Donor.Email, due.Agreement.KID,
		decimal.New(due.Agreement.Amount, -2).StringFixed(2), dueDate.Format("2006-01-02"))
	return nil
}
