package push

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/score-predictor/internal/domain/notification"
	"github.com/riskibarqy/score-predictor/internal/platform/logging"
	"github.com/riskibarqy/score-predictor/internal/platform/resilience"
)

const sendPath = "/v1/send"

var errRelayTransient = crerr.New("push relay transient failure")

type RelayConfig struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// RelayGateway hands messages to an external push relay that owns device
// subscriptions and the web-push transport.
type RelayGateway struct {
	client  *fasthttp.Client
	sendURL string
	token   string
	timeout time.Duration
	logger  *logging.Logger
	breaker *resilience.CircuitBreaker
}

func NewRelayGateway(cfg RelayConfig, logger *logging.Logger) (*RelayGateway, error) {
	baseURL, err := validateHTTPBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid PUSH_RELAY_URL")
	}
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &RelayGateway{
		client: &fasthttp.Client{
			Name:                "score-predictor-push",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		},
		sendURL: baseURL + sendPath,
		token:   strings.TrimSpace(cfg.Token),
		timeout: timeout,
		logger:  logger,
		breaker: resilience.NewCircuitBreaker(cfg.CircuitBreaker),
	}, nil
}

type relayAudience struct {
	All     bool     `json:"all"`
	UserIDs []string `json:"userIds,omitempty"`
}

type relayNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Image string `json:"image,omitempty"`
}

type relayRequest struct {
	Audience     relayAudience     `json:"audience"`
	Notification relayNotification `json:"notification"`
}

type relayResponse struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

func (g *RelayGateway) Send(ctx context.Context, audience notification.Audience, msg notification.Message) (notification.DeliveryResult, error) {
	if audience.Empty() {
		return notification.DeliveryResult{}, nil
	}
	if err := g.breaker.Allow(); err != nil {
		g.logger.WarnContext(ctx, "push relay circuit breaker rejected request", "state", g.breaker.State())
		return notification.DeliveryResult{}, crerr.Wrap(err, "push relay is temporarily unavailable")
	}

	payload := relayRequest{
		Audience: relayAudience{All: audience.All},
		Notification: relayNotification{
			Title: msg.Title,
			Body:  msg.Body,
			Image: strings.TrimSpace(msg.ImageURL),
		},
	}
	if !audience.All {
		payload.Audience.UserIDs = audience.UserIDs
	}

	body := bytebufferpool.Get()
	defer bytebufferpool.Put(body)
	if err := sonic.ConfigDefault.NewEncoder(body).Encode(payload); err != nil {
		return notification.DeliveryResult{}, crerr.Wrap(err, "marshal push payload")
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("push.url", g.sendURL),
			attribute.Bool("push.audience_all", audience.All),
			attribute.Int("push.audience_users", len(audience.UserIDs)),
		)
	}

	result, err := g.do(ctx, body.B)
	g.record(err)
	if err != nil {
		return notification.DeliveryResult{}, err
	}

	g.logger.InfoContext(ctx, "push relay accepted notification",
		"title", msg.Title,
		"sent", result.Sent,
		"failed", result.Failed,
	)
	return result, nil
}

func (g *RelayGateway) do(ctx context.Context, body []byte) (notification.DeliveryResult, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(g.sendURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if g.token != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+g.token)
	}
	req.SetBody(body)

	timeout := g.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return notification.DeliveryResult{}, crerr.Wrap(context.DeadlineExceeded, "send push notification")
	}

	if err := g.client.DoTimeout(req, resp, timeout); err != nil {
		return notification.DeliveryResult{}, fmt.Errorf("%w: post %s: %v", errRelayTransient, g.sendURL, err)
	}

	status := resp.StatusCode()
	if status/100 != 2 {
		raw := strings.TrimSpace(truncateForLog(string(resp.Body()), 1024))
		if isRetryableStatus(status) {
			return notification.DeliveryResult{}, fmt.Errorf("%w: push relay status=%d body=%s", errRelayTransient, status, raw)
		}
		return notification.DeliveryResult{}, crerr.Newf("push relay status=%d body=%s", status, raw)
	}

	var decoded relayResponse
	if len(resp.Body()) > 0 {
		if err := sonic.Unmarshal(resp.Body(), &decoded); err != nil {
			return notification.DeliveryResult{}, crerr.Wrap(err, "decode push relay response")
		}
	}
	return notification.DeliveryResult{Sent: decoded.Sent, Failed: decoded.Failed}, nil
}

// record counts only transient failures against the breaker.
func (g *RelayGateway) record(err error) {
	if err != nil && stderrors.Is(err, errRelayTransient) {
		g.breaker.RecordFailure()
		return
	}
	g.breaker.RecordSuccess()
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}
	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}
	return strings.TrimRight(candidate, "/"), nil
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}
