package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Davve420/CRM-tester/internal/events"
	"github.com/Davve420/CRM-tester/internal/notify"
)

// NotificationService turns issue events into customer emails. The whole
// path is best effort: every failure stops here and goes to the log.
type NotificationService struct {
	dispatcher  events.Dispatcher
	queue       notify.MailQueue
	mailer      notify.Mailer
	logger      *zap.Logger
	chatBaseURL string
}

// NewNotificationService creates the service. The queue may be nil; mail
// is then sent from a detached goroutine instead of the worker.
func NewNotificationService(dispatcher events.Dispatcher, queue notify.MailQueue, mailer notify.Mailer, logger *zap.Logger, chatBaseURL string) *NotificationService {
	return &NotificationService{
		dispatcher:  dispatcher,
		queue:       queue,
		mailer:      mailer,
		logger:      logger,
		chatBaseURL: chatBaseURL,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventIssueCreated, n.handleIssueCreated)
	n.dispatcher.Subscribe(events.EventIssueStateChanged, n.handleIssueStateChanged)
	n.dispatcher.Subscribe(events.EventMessagePosted, n.handleMessagePosted)
}

func (n *NotificationService) handleIssueCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.IssueCreatedPayload)
	if !ok {
		n.logger.Warn("unexpected issue_created payload", zap.String("issue_id", event.IssueID))
		return nil
	}

	job := notify.MailJob{
		To:      payload.CustomerEmail,
		Subject: fmt.Sprintf("New issue: %s", payload.Title),
		Body:    n.issueCreatedBody(payload, event.IssueID),
		IssueID: event.IssueID,
	}

	if n.queue != nil {
		if err := n.queue.Enqueue(ctx, job); err == nil {
			return nil
		} else {
			n.logger.Error("failed to enqueue notification, sending inline",
				zap.String("issue_id", event.IssueID), zap.Error(err))
		}
	}

	// no queue available: send from a detached goroutine so the
	// creating request never waits on the mail relay
	go func() {
		if err := n.mailer.Send(context.Background(), job.To, job.Subject, job.Body); err != nil {
			n.logger.Error("failed to send issue notification",
				zap.String("issue_id", job.IssueID), zap.Error(err))
		}
	}()
	return nil
}

func (n *NotificationService) handleIssueStateChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("IssueStateChanged", zap.String("issue_id", event.IssueID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleMessagePosted(ctx context.Context, event events.Event) error {
	n.logger.Info("MessagePosted", zap.String("issue_id", event.IssueID), zap.Any("payload", event.Payload))
	return nil
}

// issueCreatedBody composes the confirmation mail with a link to the chat
// room for the issue.
func (n *NotificationService) issueCreatedBody(payload events.IssueCreatedPayload, issueID string) string {
	return fmt.Sprintf(
		"<h1>%s</h1>"+
			"<p>Thank you for contacting us!</p>"+
			"<p>We have received your message:</p>"+
			"<p><i>%s</i></p>"+
			"<p>We have opened a chat room where you can talk directly with our support team about <strong>%s</strong>.</p>"+
			"<p><a href='%s/chat/%s'>Click this link to join the chat.</a></p>"+
			"<p>Kind regards,<br><strong>%s</strong> support</p>",
		payload.CompanyName,
		payload.MessageBody,
		payload.Title,
		n.chatBaseURL,
		issueID,
		payload.CompanyName,
	)
}
