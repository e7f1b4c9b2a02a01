package httpapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmitrijs2005/loveletters/internal/common"
	"github.com/dmitrijs2005/loveletters/internal/logging"
	"github.com/dmitrijs2005/loveletters/internal/server/mailer"
	"github.com/dmitrijs2005/loveletters/internal/server/models"
	"github.com/dmitrijs2005/loveletters/internal/server/storage"
)

type fakeUsers struct {
	registerFn func(ctx context.Context, username, email, password string) (*models.User, string, error)
	loginFn    func(ctx context.Context, email, password string) (string, error)
	tokens     map[string]int64
}

func (f *fakeUsers) Register(ctx context.Context, username, email, password string) (*models.User, string, error) {
	return f.registerFn(ctx, username, email, password)
}

func (f *fakeUsers) Login(ctx context.Context, email, password string) (string, error) {
	return f.loginFn(ctx, email, password)
}

func (f *fakeUsers) VerifyToken(token string) (int64, error) {
	if token == "expired" {
		return 0, common.ErrTokenExpired
	}
	id, ok := f.tokens[token]
	if !ok {
		return 0, common.ErrInvalidToken
	}
	return id, nil
}

type fakeLetters struct {
	createFn func(ctx context.Context, senderID int64, content, style, paperType string) (*models.Letter, error)
	getFn    func(ctx context.Context, id int64) (*models.Letter, error)
	listFn   func(ctx context.Context, senderID int64) ([]*models.Letter, error)
	titleFn  func(ctx context.Context, id int64, title string) (*models.Letter, error)
	deleteFn func(ctx context.Context, id int64) error
	sendFn   func(ctx context.Context, id int64, to, name string) (*models.Letter, mailer.Result, error)
}

func (f *fakeLetters) Create(ctx context.Context, senderID int64, content, style, paperType string) (*models.Letter, error) {
	return f.createFn(ctx, senderID, content, style, paperType)
}

func (f *fakeLetters) Get(ctx context.Context, id int64) (*models.Letter, error) {
	return f.getFn(ctx, id)
}

func (f *fakeLetters) ListBySender(ctx context.Context, senderID int64) ([]*models.Letter, error) {
	return f.listFn(ctx, senderID)
}

func (f *fakeLetters) UpdateTitle(ctx context.Context, id int64, title string) (*models.Letter, error) {
	return f.titleFn(ctx, id, title)
}

func (f *fakeLetters) Delete(ctx context.Context, id int64) error {
	return f.deleteFn(ctx, id)
}

func (f *fakeLetters) Send(ctx context.Context, id int64, to, name string) (*models.Letter, mailer.Result, error) {
	return f.sendFn(ctx, id, to, name)
}

type fakeUploads struct {
	gotFilename string
	err         error
}

func (f *fakeUploads) PresignPut(_ context.Context, filename string) (*storage.Upload, error) {
	f.gotFilename = filename
	if f.err != nil {
		return nil, f.err
	}
	return &storage.Upload{Key: "letters/2025/02/14/k.png", URL: "http://s3/letters/k?X-Amz-Signature=x"}, nil
}

func newTestServer(t *testing.T, o Options) http.Handler {
	t.Helper()
	if o.Users == nil {
		o.Users = &fakeUsers{tokens: map[string]int64{}}
	}
	if o.Letters == nil {
		o.Letters = &fakeLetters{}
	}
	return NewServer(o, logging.NewNopLogger()).Router()
}

func doRequest(t *testing.T, h http.Handler, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
