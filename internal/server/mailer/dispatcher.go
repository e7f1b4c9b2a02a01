package mailer

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/loveletters/internal/logging"
	"github.com/dmitrijs2005/loveletters/internal/server/config"
	"github.com/wneessen/go-mail"
	"golang.org/x/sync/singleflight"
)

// Placeholder credentials shipped in sample .env files.
const (
	PlaceholderUser     = "your_email@gmail.com"
	PlaceholderPassword = "your_app_password_here"
)

type Settings struct {
	User           string
	Password       string
	FromName       string
	FromAddress    string
	SMTPHost       string
	SMTPPort       int
	TestAccountURL string
}

func SettingsFromConfig(c *config.Config) Settings {
	return Settings{
		User:           c.MailUser,
		Password:       c.MailPassword,
		FromName:       c.MailFromName,
		FromAddress:    c.MailFromAddress,
		SMTPHost:       c.SMTPHost,
		SMTPPort:       c.SMTPPort,
		TestAccountURL: c.MailTestAccountURL,
	}
}

// HasRealCredentials reports whether both user and password are set and
// differ from the placeholders.
func (s Settings) HasRealCredentials() bool {
	return s.User != "" && s.User != PlaceholderUser &&
		s.Password != "" && s.Password != PlaceholderPassword
}

// Sender returns the From address: the SMTP user when real credentials are
// configured, otherwise FromAddress.
func (s Settings) Sender() string {
	if s.HasRealCredentials() {
		return s.User
	}
	return s.FromAddress
}

// Dispatcher resolves a Transport once and reuses it for every send.
// It is safe for concurrent use.
type Dispatcher struct {
	settings   Settings
	logger     logging.Logger
	httpClient *http.Client

	mu        sync.Mutex
	transport Transport
	resolving singleflight.Group
}

func NewDispatcher(s Settings, logger logging.Logger) *Dispatcher {
	return &Dispatcher{
		settings:   s,
		logger:     logger.With("module", "mailer"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// SetTransport replaces the cached transport. A nil t forces resolution on
// the next send.
func (d *Dispatcher) SetTransport(t Transport) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.transport = t
}

func (d *Dispatcher) cached() Transport {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.transport
}

// ResolveTransport returns the cached transport, building it on first use.
// Concurrent first calls share one build and the lock is never held while
// provisioning. A transport set during the build wins. Failed resolutions
// are not cached.
func (d *Dispatcher) ResolveTransport(ctx context.Context) (Transport, error) {
	if t := d.cached(); t != nil {
		return t, nil
	}

	v, err, _ := d.resolving.Do("transport", func() (any, error) {
		if t := d.cached(); t != nil {
			return t, nil
		}

		t, err := d.buildTransport(ctx)
		if err != nil {
			return nil, err
		}

		d.mu.Lock()
		defer d.mu.Unlock()
		if d.transport == nil {
			d.transport = t
		}
		return d.transport, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Transport), nil
}

func (d *Dispatcher) buildTransport(ctx context.Context) (Transport, error) {
	if d.settings.HasRealCredentials() {
		t, err := NewSMTPTransport(SMTPConfig{
			Name:      "smtp",
			Host:      d.settings.SMTPHost,
			Port:      d.settings.SMTPPort,
			Username:  d.settings.User,
			Password:  d.settings.Password,
			SSL:       d.settings.SMTPPort == 465,
			TLSPolicy: mail.TLSMandatory,
		})
		if err != nil {
			return nil, err
		}
		d.logger.Info(ctx, "using configured SMTP transport", "host", d.settings.SMTPHost, "user", d.settings.User)
		return t, nil
	}

	acc, err := CreateTestAccount(ctx, d.httpClient, d.settings.TestAccountURL)
	if err != nil {
		return nil, err
	}
	t, err := acc.Transport()
	if err != nil {
		return nil, err
	}
	d.logger.Info(ctx, "using Ethereal test account, mail will not be delivered", "user", acc.User, "web", acc.Web)
	return t, nil
}

// Send stamps the sender onto m and delivers it. Failures are reported in
// the Result, never as an error.
func (d *Dispatcher) Send(ctx context.Context, m *Message) Result {
	m.FromName = d.settings.FromName
	m.FromAddress = d.settings.Sender()

	t, err := d.ResolveTransport(ctx)
	if err != nil {
		d.logger.Error(ctx, "mail transport unavailable", "error", err)
		return Result{Success: false, Error: err.Error()}
	}

	info, err := t.Send(ctx, m)
	if err != nil {
		d.logger.Error(ctx, "mail send failed", "transport", t.Name(), "to", m.To, "error", err)
		return Result{Success: false, Error: err.Error()}
	}

	d.logger.Info(ctx, "mail sent", "transport", t.Name(), "to", m.To, "message_id", info.MessageID)
	if info.PreviewURL != "" {
		d.logger.Info(ctx, "mail preview", "url", info.PreviewURL)
	}

	return Result{Success: true, MessageID: info.MessageID, PreviewURL: info.PreviewURL}
}
