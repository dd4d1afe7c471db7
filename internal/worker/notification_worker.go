package worker

import (
	"go.uber.org/zap"

	"github.com/deskhub/helpdesk/internal/service"
)

// StartNotificationWorker wires the notification handlers onto the
// dispatcher. Delivery is in-process; there is no goroutine to manage.
func StartNotificationWorker(notifications *service.NotificationService, logger *zap.Logger) {
	if notifications == nil {
		return
	}
	notifications.RegisterHandlers()
	logger.Info("notification worker started")
}
