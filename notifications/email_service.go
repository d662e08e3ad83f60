package notifications

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	config "github.com/anjiri1684/tuition_admin/configs"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendGridHost     = "https://api.sendgrid.com"
	sendGridEndpoint = "/v3/mail/send"
)

type Message struct {
	ToName  string
	ToEmail string
	Subject string
	HTML    string
}

// Notifier delivers a single email.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// New returns a SendGrid notifier when an API key and sender are configured
// and a console notifier otherwise.
func New(cfg *config.Config, log zerolog.Logger) Notifier {
	if cfg.SendGrid.APIKey == "" || cfg.Email.Sender == "" {
		log.Warn().Msg("email service not configured, decisions will be logged only")
		return &ConsoleNotifier{log: log}
	}
	return &SendGridNotifier{
		key:  cfg.SendGrid.APIKey,
		from: sgmail.NewEmail(cfg.Email.SenderName, cfg.Email.Sender),
		log:  log,
	}
}

type SendGridNotifier struct {
	key  string
	from *sgmail.Email
	log  zerolog.Logger
}

func (s *SendGridNotifier) Send(ctx context.Context, msg Message) error {
	if msg.ToEmail == "" || !strings.Contains(msg.ToEmail, "@") {
		return errors.Errorf("invalid recipient email: %q", msg.ToEmail)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := sgmail.NewV3MailInit(s.from, msg.Subject, sgmail.NewEmail(msg.ToName, msg.ToEmail),
		sgmail.NewContent("text/html", msg.HTML))

	req := sendgrid.GetRequest(s.key, sendGridEndpoint, sendGridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.API(req)
	if err != nil {
		return errors.Wrap(err, "sending email via sendgrid")
	}
	if res.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("sendgrid rejected email: status %d: %s", res.StatusCode, res.Body)
	}

	s.log.Info().Str("to", msg.ToEmail).Str("subject", msg.Subject).Msg("email sent")
	return nil
}

// ConsoleNotifier writes emails to the log. Used in development and tests.
type ConsoleNotifier struct {
	log  zerolog.Logger
	Sent []Message
}

func NewConsoleNotifier(log zerolog.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{log: log}
}

func (c *ConsoleNotifier) Send(_ context.Context, msg Message) error {
	c.Sent = append(c.Sent, msg)
	c.log.Info().
		Str("to", msg.ToEmail).
		Str("subject", msg.Subject).
		Msg("email (console)")
	return nil
}

var decisionTemplate = template.Must(template.New("decision").Parse(
	`<h1>{{.Heading}}</h1><p>Hello {{.Name}},</p><p>{{.Body}}</p>{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}`))

// DecisionMessage builds the email sent to an account owner after an admin
// approves or rejects the account.
func DecisionMessage(name, email string, approved bool, reason string) (Message, error) {
	data := struct {
		Heading, Name, Body, Reason string
	}{Name: name, Reason: reason}

	subject := "Your account has been approved"
	if approved {
		data.Heading = "Welcome aboard!"
		data.Body = "Your account has been approved. You can now log in."
		data.Reason = ""
	} else {
		subject = "Update on your account registration"
		data.Heading = "Registration update"
		data.Body = "Your account registration was not approved."
	}

	var b strings.Builder
	if err := decisionTemplate.Execute(&b, data); err != nil {
		return Message{}, errors.Wrap(err, "rendering decision email")
	}

	if name == "" {
		name = email
	}
	return Message{ToName: name, ToEmail: email, Subject: subject, HTML: b.String()}, nil
}

func (m Message) String() string {
	return fmt.Sprintf("%s <%s>: %s", m.ToName, m.ToEmail, m.Subject)
}
