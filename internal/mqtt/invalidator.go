package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	common "opshell/internal/common/mqtt"

	"go.uber.org/zap"
)

// ConfigInvalidator evicts a tenant's cached configuration.
type ConfigInvalidator interface {
	Invalidate(ctx context.Context, tenantID string) error
}

// invalidateMessage 失效广播载荷：{"tenant_id": "..."}
// 兼容裸 tenant id 字符串载荷
type invalidateMessage struct {
	TenantID string `json:"tenant_id"`
}

// Subscriber listens on the config-invalidation topic and evicts the named
// tenant so the next config read refetches from the source of truth.
type Subscriber struct {
	client *common.Client
	target ConfigInvalidator
	logger *zap.Logger
}

func NewSubscriber(client *common.Client, target ConfigInvalidator, logger *zap.Logger) *Subscriber {
	return &Subscriber{client: client, target: target, logger: logger}
}

// Start subscribes to topic with QoS 1.
func (s *Subscriber) Start(topic string) error {
	if err := s.client.Subscribe(topic, 1, s.handle); err != nil {
		return fmt.Errorf("failed to start config invalidation subscriber: %w", err)
	}
	s.logger.Info("config invalidation subscriber started", zap.String("topic", topic))
	return nil
}

func (s *Subscriber) handle(topic string, payload []byte) error {
	var msg invalidateMessage
	if err := json.Unmarshal(payload, &msg); err != nil || msg.TenantID == "" {
		// 兼容裸字符串载荷
		msg.TenantID = strings.TrimSpace(string(payload))
	}
	if msg.TenantID == "" {
		return fmt.Errorf("empty tenant id in invalidation message on %s", topic)
	}

	if err := s.target.Invalidate(context.Background(), msg.TenantID); err != nil {
		return fmt.Errorf("failed to invalidate tenant %s: %w", msg.TenantID, err)
	}
	s.logger.Info("tenant config cache invalidated",
		zap.String("tenant_id", msg.TenantID),
		zap.String("topic", topic),
	)
	return nil
}
