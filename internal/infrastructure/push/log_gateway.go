package push

import (
	"context"

	"github.com/riskibarqy/score-predictor/internal/domain/notification"
	"github.com/riskibarqy/score-predictor/internal/platform/logging"
)

// LogGateway stands in for the relay when push is disabled. It reports
// nothing as sent.
type LogGateway struct {
	logger *logging.Logger
}

func NewLogGateway(logger *logging.Logger) *LogGateway {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogGateway{logger: logger}
}

func (g *LogGateway) Send(ctx context.Context, audience notification.Audience, msg notification.Message) (notification.DeliveryResult, error) {
	g.logger.InfoContext(ctx, "push disabled, notification dropped",
		"title", msg.Title,
		"audience_all", audience.All,
		"audience_users", len(audience.UserIDs),
	)
	return notification.DeliveryResult{}, nil
}
