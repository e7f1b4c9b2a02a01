package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/loveletters/internal/common"
	"github.com/dmitrijs2005/loveletters/internal/dbx"
	"github.com/dmitrijs2005/loveletters/internal/server/models"
	"github.com/dmitrijs2005/loveletters/internal/server/repositories/letters"
	"github.com/dmitrijs2005/loveletters/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

type fakeUsersRepo struct {
	mu     sync.Mutex
	nextID int64
	byMail map[string]*models.User

	createErr error
	getErr    error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byMail: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byMail[u.Email]; ok {
		return nil, common.ErrorUserExists
	}
	f.nextID++
	cp := *u
	cp.ID = f.nextID
	cp.CreatedAt = time.Now()
	f.byMail[u.Email] = &cp
	return &cp, nil
}

func (f *fakeUsersRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byMail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

type fakeLettersRepo struct {
	mu      sync.Mutex
	nextID  int64
	clock   time.Time
	letters map[int64]*models.Letter

	createErr   error
	markSentErr error
	writes      int
}

func newFakeLettersRepo() *fakeLettersRepo {
	return &fakeLettersRepo{
		letters: map[int64]*models.Letter{},
		clock:   time.Date(2025, 2, 14, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fakeLettersRepo) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeLettersRepo) Create(_ context.Context, l *models.Letter) (*models.Letter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	f.writes++
	cp := *l
	cp.ID = f.nextID
	cp.CreatedAt = f.tick()
	cp.UpdatedAt = cp.CreatedAt
	f.letters[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeLettersRepo) GetByID(_ context.Context, id int64) (*models.Letter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.letters[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeLettersRepo) ListBySender(_ context.Context, senderID int64) ([]*models.Letter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Letter{}
	for _, l := range f.letters {
		if l.SenderID == senderID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeLettersRepo) UpdateTitle(_ context.Context, id int64, title string) (*models.Letter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.letters[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	f.writes++
	l.Title = &title
	l.UpdatedAt = f.tick()
	cp := *l
	return &cp, nil
}

func (f *fakeLettersRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.letters[id]; !ok {
		return common.ErrorNotFound
	}
	f.writes++
	delete(f.letters, id)
	return nil
}

func (f *fakeLettersRepo) MarkSent(_ context.Context, id int64, recipientEmail string) (*models.Letter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markSentErr != nil {
		return nil, f.markSentErr
	}
	l, ok := f.letters[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	f.writes++
	l.RecipientEmail = &recipientEmail
	l.UpdatedAt = f.tick()
	cp := *l
	return &cp, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	l *fakeLettersRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newFakeUsersRepo(), l: newFakeLettersRepo()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return m.u }
func (m *fakeRepoManager) Letters(dbx.DBTX) letters.Repository          { return m.l }
