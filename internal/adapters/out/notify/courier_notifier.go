// Package notify delivers dispatch offers to couriers. The log notifier is
// the default sink; a push-gateway implementation can replace it behind the
// same port.
package notify

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/offer"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

var _ ports.CourierNotifier = (*LogCourierNotifier)(nil)

// LogCourierNotifier records each outgoing offer in the service log.
type LogCourierNotifier struct {
	logger *slog.Logger
}

// NewLogCourierNotifier creates the notifier.
func NewLogCourierNotifier(logger *slog.Logger) (*LogCourierNotifier, error) {
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	return &LogCourierNotifier{logger: logger.With("component", "courier_notifier")}, nil
}

// NotifyOffer announces the offer to its courier.
func (n *LogCourierNotifier) NotifyOffer(ctx context.Context, o *offer.Offer) error {
	if err := o.Validate(); err != nil {
		return err
	}

	n.logger.InfoContext(ctx, "Offer sent to courier",
		"offerId", o.ID(),
		"orderId", o.OrderID(),
		"courierId", o.CourierID(),
		"round", o.Round(),
		"deadline", o.Deadline(),
	)

	return nil
}
