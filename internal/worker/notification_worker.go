package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Davve420/CRM-tester/internal/notify"
	"github.com/Davve420/CRM-tester/internal/service"
)

// StartNotificationWorker registers notification handlers and, when a
// queue is configured, starts the drain loop. The loop stops when ctx is
// cancelled.
func StartNotificationWorker(ctx context.Context, notificationService *service.NotificationService, queue notify.MailQueue, mailer notify.Mailer, logger *zap.Logger) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()

	if queue == nil {
		return
	}
	go drainMailQueue(ctx, queue, mailer, logger)
}

func drainMailQueue(ctx context.Context, queue notify.MailQueue, mailer notify.Mailer, logger *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := queue.Dequeue(ctx, 5*time.Second)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("mail queue dequeue failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}

		if err := mailer.Send(ctx, job.To, job.Subject, job.Body); err != nil {
			logger.Error("failed to send queued notification",
				zap.String("issue_id", job.IssueID),
				zap.Error(err))
		}
	}
}
