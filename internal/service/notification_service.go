package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/dealerdesk/triage-service/internal/config"
	"github.com/dealerdesk/triage-service/internal/events"
)

// NotificationService handles emitting notifications for triage events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventClassificationCompleted, n.handleClassificationCompleted)
	n.dispatcher.Subscribe(events.EventAutomationStarted, n.handleAutomationStarted)
	n.dispatcher.Subscribe(events.EventAutomationCompleted, n.handleAutomationCompleted)
	n.dispatcher.Subscribe(events.EventAutomationFailed, n.handleAutomationFailed)
	n.dispatcher.Subscribe(events.EventCancellationLogged, n.handleCancellationLogged)
}

func (n *NotificationService) handleClassificationCompleted(ctx context.Context, event events.Event) error {
	n.logger.Info("ClassificationCompleted", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleAutomationStarted(ctx context.Context, event events.Event) error {
	n.logger.Info("AutomationStarted", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleAutomationCompleted(ctx context.Context, event events.Event) error {
	n.logger.Info("AutomationCompleted", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleAutomationFailed(ctx context.Context, event events.Event) error {
	n.logger.Warn("AutomationFailed", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCancellationLogged(ctx context.Context, event events.Event) error {
	n.logger.Info("CancellationLogged", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}
