package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/url"
	"time"
)

// InviteEmail holds everything needed to render a team invitation email.
type InviteEmail struct {
	RecipientEmail   string
	InviterName      string
	OrganizationName string
	RoleLabel        string
	AcceptURL        string
	ExpiresAt        time.Time
}

// TaskReminderEmail holds everything needed to render a due-task reminder.
type TaskReminderEmail struct {
	RecipientEmail string
	RecipientName  string
	ProjectName    string
	TaskTitle      string
	DueDate        time.Time
}

// Notifier composes and dispatches portal emails. Dispatch is fire-and-forget:
// failures are logged and never returned to the caller, because the action
// that triggered the email has already succeeded.
type Notifier struct {
	sender  EmailSender
	baseURL string
	logger  *slog.Logger
	timeout time.Duration
}

// NewNotifier creates a Notifier that builds acceptance links on baseURL.
func NewNotifier(sender EmailSender, baseURL string, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		sender:  sender,
		baseURL: baseURL,
		logger:  logger,
		timeout: 15 * time.Second,
	}
}

// AcceptURL builds the invitation acceptance link with the token embedded.
func (n *Notifier) AcceptURL(token string) string {
	return fmt.Sprintf("%s/portal/team/accept?token=%s", n.baseURL, url.QueryEscape(token))
}

// DispatchInvite sends the invitation email asynchronously.
func (n *Notifier) DispatchInvite(email InviteEmail) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		body, err := renderTemplate(inviteTemplate, email)
		if err != nil {
			n.logger.Error("failed to render invite email", "error", err, "recipient", email.RecipientEmail)
			return
		}

		err = n.sender.SendEmail(ctx, SendEmailParams{
			SendTo:   email.RecipientEmail,
			Subject:  fmt.Sprintf("%s invited you to join %s on Taro Studio", email.InviterName, email.OrganizationName),
			BodyHTML: body,
			Tag:      "team-invite",
		})
		if err != nil {
			n.logger.Error("failed to send invite email", "error", err, "recipient", email.RecipientEmail)
		}
	}()
}

// DispatchTaskReminder sends a due-task reminder email asynchronously.
func (n *Notifier) DispatchTaskReminder(email TaskReminderEmail) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		body, err := renderTemplate(reminderTemplate, email)
		if err != nil {
			n.logger.Error("failed to render reminder email", "error", err, "recipient", email.RecipientEmail)
			return
		}

		err = n.sender.SendEmail(ctx, SendEmailParams{
			SendTo:   email.RecipientEmail,
			Subject:  fmt.Sprintf("Reminder: %q is due soon", email.TaskTitle),
			BodyHTML: body,
			Tag:      "task-reminder",
		})
		if err != nil {
			n.logger.Error("failed to send reminder email", "error", err, "recipient", email.RecipientEmail)
		}
	}()
}

func renderTemplate(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var inviteTemplate = template.Must(template.New("invite").Parse(`<html>
<body style="font-family: sans-serif; color: #1a1a1a;">
  <h2>You're invited to {{.OrganizationName}}</h2>
  <p>{{.InviterName}} has invited you to join <strong>{{.OrganizationName}}</strong> as a {{.RoleLabel}} on the Taro Studio client portal.</p>
  <p><a href="{{.AcceptURL}}" style="display:inline-block;padding:12px 24px;background:#6b4fbb;color:#fff;border-radius:6px;text-decoration:none;">Accept invitation</a></p>
  <p>This invitation expires on {{.ExpiresAt.Format "January 2, 2006"}}.</p>
  <p>If you weren't expecting this, you can safely ignore this email.</p>
</body>
</html>`))

var reminderTemplate = template.Must(template.New("reminder").Parse(`<html>
<body style="font-family: sans-serif; color: #1a1a1a;">
  <h2>Task due soon</h2>
  <p>Hi {{.RecipientName}},</p>
  <p>The task <strong>{{.TaskTitle}}</strong> in project <strong>{{.ProjectName}}</strong> is due on {{.DueDate.Format "January 2, 2006"}}.</p>
</body>
</html>`))
