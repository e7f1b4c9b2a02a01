package letters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/loveletters/internal/common"
	"github.com/dmitrijs2005/loveletters/internal/dbx"
	"github.com/dmitrijs2005/loveletters/internal/server/models"
)

const letterColumns = `id, sender_id, content, style, paper_type, title, recipient_email, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLetter(row scanner) (*models.Letter, error) {
	var (
		letter    models.Letter
		title     sql.NullString
		recipient sql.NullString
	)

	err := row.Scan(&letter.ID, &letter.SenderID, &letter.Content, &letter.Style, &letter.PaperType,
		&title, &recipient, &letter.CreatedAt, &letter.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if title.Valid {
		letter.Title = &title.String
	}
	if recipient.Valid {
		letter.RecipientEmail = &recipient.String
	}

	return &letter, nil
}

// queryOne runs a single-row statement and maps sql.ErrNoRows to
// common.ErrorNotFound.
func (r *PostgresRepository) queryOne(ctx context.Context, query string, args ...any) (*models.Letter, error) {
	letter, err := scanLetter(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return letter, nil
}

func (r *PostgresRepository) Create(ctx context.Context, letter *models.Letter) (*models.Letter, error) {

	query :=
		`INSERT INTO letters (sender_id, content, style, paper_type, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, NOW(), NOW())
		 RETURNING ` + letterColumns

	created, err := scanLetter(r.db.QueryRowContext(ctx, query,
		letter.SenderID, letter.Content, letter.Style, letter.PaperType))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Letter, error) {
	query := `SELECT ` + letterColumns + ` FROM letters WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

// ListBySender returns the sender's letters newest first. Ties on created_at
// are broken by id so the order is stable.
func (r *PostgresRepository) ListBySender(ctx context.Context, senderID int64) ([]*models.Letter, error) {
	query := `SELECT ` + letterColumns + ` FROM letters
		WHERE sender_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, senderID)
	if err != nil {
		return nil, fmt.Errorf("failed to select letters: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Letter, 0)
	for rows.Next() {
		letter, err := scanLetter(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, letter)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// UpdateTitle is a conditional write: nothing is touched when id is unknown.
func (r *PostgresRepository) UpdateTitle(ctx context.Context, id int64, title string) (*models.Letter, error) {
	query := `UPDATE letters SET title = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + letterColumns
	return r.queryOne(ctx, query, id, title)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {

	query := `DELETE FROM letters WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete letter: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) MarkSent(ctx context.Context, id int64, recipientEmail string) (*models.Letter, error) {
	query := `UPDATE letters SET recipient_email = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + letterColumns
	return r.queryOne(ctx, query, id, recipientEmail)
}
