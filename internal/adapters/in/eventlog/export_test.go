package eventlog

import "log/slog"

// NewTestConsumer builds a consumer without a broker channel for exercising
// HandleDelivery.
func NewTestConsumer(handler *Handler, logger *slog.Logger) *Consumer {
	return &Consumer{handler: handler, logger: logger}
}
