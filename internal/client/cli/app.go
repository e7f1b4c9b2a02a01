package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/dmitrijs2005/loveletters/internal/client/api"
	"github.com/dmitrijs2005/loveletters/internal/client/config"
	"github.com/dmitrijs2005/loveletters/internal/client/session"
)

// apiClient is the part of *api.Client the commands use.
type apiClient interface {
	SetToken(token string)
	Register(ctx context.Context, username, email string, password []byte) (string, error)
	Login(ctx context.Context, email string, password []byte) (string, error)
	CreateLetter(ctx context.Context, senderID int64, content, style, paperType string) (*api.Letter, error)
	GetLetter(ctx context.Context, id int64) (*api.Letter, error)
	ListLetters(ctx context.Context, userID int64) ([]api.Letter, error)
	UpdateTitle(ctx context.Context, id int64, title string) (*api.Letter, error)
	DeleteLetter(ctx context.Context, id int64) error
	SendLetter(ctx context.Context, id int64, recipientEmail, recipientName string) (*api.SendResult, error)
	CreateUpload(ctx context.Context, filename string) (*api.Upload, error)
	UploadFile(ctx context.Context, u *api.Upload, contentType string, data []byte) error
	Ping(ctx context.Context) error
}

type sessionStore interface {
	Save(s *session.Session) error
	Load() (*session.Session, error)
	Clear() error
}

type App struct {
	config  *config.Config
	api     apiClient
	store   sessionStore
	session *session.Session
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	store, err := session.NewStore(c.SessionDir)
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}

	return &App{
		config: c,
		api:    api.NewClient(c.ServerURL, c.RequestTimeout),
		store:  store,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}

func (a *App) getStatus() string {
	if a.session == nil {
		return ""
	}
	return fmt.Sprintf("(%s)", a.session.Email)
}

// restoreSession picks up a login saved by a previous run. Expired sessions
// are dropped.
func (a *App) restoreSession() {
	s, err := a.store.Load()
	if err != nil {
		log.Printf("Could not read saved session: %s", err.Error())
		return
	}
	if s == nil {
		return
	}
	if s.Expired(time.Now()) {
		log.Printf("Saved session expired, please login again")
		_ = a.store.Clear()
		return
	}

	a.session = s
	a.api.SetToken(s.Token)
}

func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to LoveLetters CLI (type 'help' for commands)")

	pingCtx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	if err := a.api.Ping(pingCtx); err != nil {
		log.Printf("Server at %s is not reachable: %s", a.config.ServerURL, err.Error())
	}
	cancel()

	a.restoreSession()
	runREPL(ctx, a, a.getStatus, a.reader)
}
