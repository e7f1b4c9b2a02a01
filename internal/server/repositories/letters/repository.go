package letters

import (
	"context"

	"github.com/dmitrijs2005/loveletters/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, letter *models.Letter) (*models.Letter, error)
	GetByID(ctx context.Context, id int64) (*models.Letter, error)
	ListBySender(ctx context.Context, senderID int64) ([]*models.Letter, error)
	UpdateTitle(ctx context.Context, id int64, title string) (*models.Letter, error)
	Delete(ctx context.Context, id int64) error
	MarkSent(ctx context.Context, id int64, recipientEmail string) (*models.Letter, error)
}
