// Package httpapi exposes the LoveLetters JSON API over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/loveletters/internal/logging"
	"github.com/dmitrijs2005/loveletters/internal/server/mailer"
	"github.com/dmitrijs2005/loveletters/internal/server/models"
	"github.com/dmitrijs2005/loveletters/internal/server/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type UserService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (string, error)
	VerifyToken(token string) (int64, error)
}

type LetterService interface {
	Create(ctx context.Context, senderID int64, content, style, paperType string) (*models.Letter, error)
	Get(ctx context.Context, id int64) (*models.Letter, error)
	ListBySender(ctx context.Context, senderID int64) ([]*models.Letter, error)
	UpdateTitle(ctx context.Context, id int64, title string) (*models.Letter, error)
	Delete(ctx context.Context, id int64) error
	Send(ctx context.Context, id int64, recipientEmail, recipientName string) (*models.Letter, mailer.Result, error)
}

type UploadPresigner interface {
	PresignPut(ctx context.Context, filename string) (*storage.Upload, error)
}

// Options configures a Server. Uploads may be nil, in which case the upload
// route is not mounted.
type Options struct {
	Address     string
	CORSOrigins string
	RequireAuth bool
	Users       UserService
	Letters     LetterService
	Uploads     UploadPresigner
}

type Server struct {
	address     string
	corsOrigins []string
	requireAuth bool
	users       UserService
	letters     LetterService
	uploads     UploadPresigner
	logger      logging.Logger
}

func NewServer(o Options, l logging.Logger) *Server {
	var origins []string
	for _, p := range strings.Split(o.CORSOrigins, ",") {
		if v := strings.TrimRight(strings.TrimSpace(p), "/"); v != "" {
			origins = append(origins, v)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return &Server{
		address:     o.Address,
		corsOrigins: origins,
		requireAuth: o.RequireAuth,
		users:       o.Users,
		letters:     o.Letters,
		uploads:     o.Uploads,
		logger:      l.With("module", "http_server"),
	}
}

// Router builds the route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			if s.requireAuth {
				r.Use(s.accessToken)
			}

			r.Post("/letters", s.handleCreateLetter)
			r.Get("/letters/{id}", s.handleGetLetter)
			r.Patch("/letters/{id}", s.handleUpdateTitle)
			r.Delete("/letters/{id}", s.handleDeleteLetter)
			r.Post("/letters/{id}/send", s.handleSendLetter)
			r.Get("/users/{userId}/letters", s.handleListLetters)

			if s.uploads != nil {
				r.Post("/uploads", s.handleCreateUpload)
			}
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String(), "require_auth", s.requireAuth)

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
