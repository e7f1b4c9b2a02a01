package mailer

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"
)

// Transport delivers rendered messages.
type Transport interface {
	Name() string
	Send(ctx context.Context, m *Message) (*SendInfo, error)
}

// SMTPConfig describes an authenticated SMTP relay.
type SMTPConfig struct {
	Name     string
	Host     string
	Port     int
	Username string
	Password string
	// SSL dials implicit TLS; otherwise TLSPolicy governs STARTTLS.
	SSL       bool
	TLSPolicy mail.TLSPolicy
	Timeout   time.Duration
	// PreviewURL, when set, is reported with every accepted message.
	PreviewURL string
}

type SMTPTransport struct {
	cfg SMTPConfig
}

// NewSMTPTransport validates cfg by building a client. No connection is
// made until Send.
func NewSMTPTransport(cfg SMTPConfig) (*SMTPTransport, error) {
	if cfg.Name == "" {
		cfg.Name = "smtp"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	t := &SMTPTransport{cfg: cfg}
	if _, err := t.client(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *SMTPTransport) Name() string {
	return t.cfg.Name
}

func (t *SMTPTransport) client() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(t.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(t.cfg.Username),
		mail.WithPassword(t.cfg.Password),
		mail.WithTLSPolicy(t.cfg.TLSPolicy),
		mail.WithTimeout(t.cfg.Timeout),
	}
	if t.cfg.SSL {
		opts = append(opts, mail.WithSSL())
	}

	c, err := mail.NewClient(t.cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return c, nil
}

// Send dials the relay, delivers m and hangs up. A fresh client per call
// keeps concurrent sends independent.
func (t *SMTPTransport) Send(ctx context.Context, m *Message) (*SendInfo, error) {
	msg, id, err := buildMsg(m)
	if err != nil {
		return nil, err
	}

	c, err := t.client()
	if err != nil {
		return nil, err
	}

	if err := c.DialAndSendWithContext(ctx, msg); err != nil {
		return nil, err
	}

	return &SendInfo{MessageID: id, PreviewURL: t.cfg.PreviewURL}, nil
}

// buildMsg converts m into a MIME message and returns it together with its
// Message-ID in angle-bracket form.
func buildMsg(m *Message) (*mail.Msg, string, error) {
	msg := mail.NewMsg()

	if err := msg.FromFormat(m.FromName, m.FromAddress); err != nil {
		return nil, "", fmt.Errorf("invalid sender: %w", err)
	}

	var err error
	if m.ToName != "" {
		err = msg.AddToFormat(m.ToName, m.To)
	} else {
		err = msg.To(m.To)
	}
	if err != nil {
		return nil, "", fmt.Errorf("invalid recipient: %w", err)
	}

	id := uuid.NewString() + "@loveletters"
	msg.SetMessageIDWithValue(id)
	msg.SetDate()
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextHTML, m.HTML)

	for _, a := range m.Attachments {
		opts := []mail.FileOption{mail.WithFileContentType(mail.ContentType(a.ContentType))}
		if a.ContentID != "" {
			opts = append(opts, mail.WithFileContentID(a.ContentID))
			err = msg.EmbedReader(a.Filename, bytes.NewReader(a.Data), opts...)
		} else {
			err = msg.AttachReader(a.Filename, bytes.NewReader(a.Data), opts...)
		}
		if err != nil {
			return nil, "", fmt.Errorf("attach %s: %w", a.Filename, err)
		}
	}

	return msg, "<" + id + ">", nil
}
