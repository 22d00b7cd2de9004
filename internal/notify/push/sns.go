package push

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"match-portal/match-portal-backend/internal/config"
	"match-portal/match-portal-backend/internal/users"
)

// EndpointResolver looks up the user record carrying the registered push
// endpoint. Device-token management itself is out of scope; only the stored
// endpoint ARN is consulted.
type EndpointResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*users.User, error)
}

// Sender publishes mobile push messages to SNS platform endpoints. Delivery
// is fire-and-forget: every failure is logged, nothing is returned.
type Sender struct {
	client     *sns.Client
	resolver   EndpointResolver
	logger     *zap.Logger
	configured bool
}

// NewSender creates the push sender. Missing platform configuration degrades
// to a logged no-op instead of failing startup.
func NewSender(ctx context.Context, cfg config.PushConfig, resolver EndpointResolver, logger *zap.Logger) *Sender {
	if cfg.PlatformAppARN == "" {
		return &Sender{resolver: resolver, logger: logger}
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		logger.Warn("AWS config load failed, push delivery disabled", zap.Error(err))
		return &Sender{resolver: resolver, logger: logger}
	}
	return &Sender{
		client:     sns.NewFromConfig(awsCfg),
		resolver:   resolver,
		logger:     logger,
		configured: true,
	}
}

// pushPayload is the per-platform message published to SNS
type pushPayload struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
	Sound string            `json:"sound"`
}

// SendToUser publishes a push message to the user's registered endpoint.
// Users without a registered device are skipped silently.
func (s *Sender) SendToUser(ctx context.Context, userID uuid.UUID, title, body string, data map[string]string) {
	if !s.configured {
		return
	}
	user, err := s.resolver.GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn("push target lookup failed",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return
	}
	if user.PushEndpointARN == "" {
		return
	}

	payload, err := json.Marshal(pushPayload{Title: title, Body: body, Data: data, Sound: "default"})
	if err != nil {
		s.logger.Error("push payload marshal failed", zap.Error(err))
		return
	}
	message, err := json.Marshal(map[string]string{
		"default": body,
		"GCM":     string(payload),
		"APNS":    string(payload),
	})
	if err != nil {
		s.logger.Error("push message marshal failed", zap.Error(err))
		return
	}

	_, err = s.client.Publish(ctx, &sns.PublishInput{
		TargetArn:        aws.String(user.PushEndpointARN),
		Message:          aws.String(string(message)),
		MessageStructure: aws.String("json"),
	})
	if err != nil {
		s.logger.Warn("push publish failed",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return
	}
	s.logger.Info("push sent",
		zap.String("user_id", userID.String()),
		zap.String("title", title))
}
