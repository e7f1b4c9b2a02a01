package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/loveletters/internal/common"
	"github.com/dmitrijs2005/loveletters/internal/server/mailer"
	"github.com/dmitrijs2005/loveletters/internal/server/models"
	"github.com/dmitrijs2005/loveletters/internal/server/repositories/repomanager"
)

// MailDispatcher delivers a rendered message and reports the outcome.
type MailDispatcher interface {
	Send(ctx context.Context, m *mailer.Message) mailer.Result
}

type LetterService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	mailer      MailDispatcher
}

func NewLetterService(db *sql.DB, m repomanager.RepositoryManager, d MailDispatcher) *LetterService {
	return &LetterService{
		db:          db,
		repomanager: m,
		mailer:      d,
	}
}

func (s *LetterService) Create(ctx context.Context, senderID int64, content, style, paperType string) (*models.Letter, error) {
	repo := s.repomanager.Letters(s.db)

	letter, err := repo.Create(ctx, &models.Letter{
		SenderID:  senderID,
		Content:   content,
		Style:     style,
		PaperType: paperType,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating letter: %w", err)
	}
	return letter, nil
}

func (s *LetterService) Get(ctx context.Context, id int64) (*models.Letter, error) {
	return s.repomanager.Letters(s.db).GetByID(ctx, id)
}

// ListBySender returns the sender's letters, newest first.
func (s *LetterService) ListBySender(ctx context.Context, senderID int64) ([]*models.Letter, error) {
	return s.repomanager.Letters(s.db).ListBySender(ctx, senderID)
}

func (s *LetterService) UpdateTitle(ctx context.Context, id int64, title string) (*models.Letter, error) {
	return s.repomanager.Letters(s.db).UpdateTitle(ctx, id, title)
}

func (s *LetterService) Delete(ctx context.Context, id int64) error {
	return s.repomanager.Letters(s.db).Delete(ctx, id)
}

// Send emails the letter and records the recipient. The recipient is only
// stored when the dispatcher reports success; otherwise the returned error
// wraps common.ErrorMailTransport and the result explains the failure.
func (s *LetterService) Send(ctx context.Context, id int64, recipientEmail, recipientName string) (*models.Letter, mailer.Result, error) {
	repo := s.repomanager.Letters(s.db)

	letter, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, mailer.Result{}, err
	}

	msg, err := mailer.ComposeLetter(letter, recipientEmail, recipientName)
	if err != nil {
		return nil, mailer.Result{}, fmt.Errorf("error composing letter: %w", err)
	}

	res := s.mailer.Send(ctx, msg)
	if !res.Success {
		return letter, res, fmt.Errorf("%w: %s", common.ErrorMailTransport, res.Error)
	}

	sent, err := repo.MarkSent(ctx, id, recipientEmail)
	if err != nil {
		return nil, res, fmt.Errorf("error marking letter sent: %w", err)
	}

	return sent, res, nil
}
