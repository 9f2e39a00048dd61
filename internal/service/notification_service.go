package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/attendance-service/internal/config"
	"github.com/spec-kit/attendance-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
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
	n.dispatcher.Subscribe(events.EventEmployeeRegistered, n.handleEmployeeRegistered)
	n.dispatcher.Subscribe(events.EventEmployeeDeactivated, n.handleEmployeeDeactivated)
	n.dispatcher.Subscribe(events.EventEmployeeClockedIn, n.handleClockedIn)
	n.dispatcher.Subscribe(events.EventEmployeeClockedOut, n.handleClockedOut)
	n.dispatcher.Subscribe(events.EventLateArrival, n.handleLateArrival)
}

func (n *NotificationService) handleEmployeeRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("EmployeeRegistered", zap.String("employee_id", event.EmployeeID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleEmployeeDeactivated(ctx context.Context, event events.Event) error {
	n.logger.Info("EmployeeDeactivated", zap.String("employee_id", event.EmployeeID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleClockedIn(ctx context.Context, event events.Event) error {
	n.logger.Info("EmployeeClockedIn", zap.String("employee_id", event.EmployeeID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleClockedOut(ctx context.Context, event events.Event) error {
	n.logger.Info("EmployeeClockedOut", zap.String("employee_id", event.EmployeeID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleLateArrival(ctx context.Context, event events.Event) error {
	n.logger.Info("LateArrival", zap.String("employee_id", event.EmployeeID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("employee_id", event.EmployeeID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("employee_id", event.EmployeeID),
		zap.String("event_type", string(event.Type)))
}
