package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/bookdelivery/backend/internal/common"
	"github.com/bookdelivery/backend/internal/dbx"
	"github.com/bookdelivery/backend/internal/logging"
	"github.com/bookdelivery/backend/internal/server/config"
	"github.com/bookdelivery/backend/internal/server/models"
	booksrepo "github.com/bookdelivery/backend/internal/server/repositories/books"
	ordersrepo "github.com/bookdelivery/backend/internal/server/repositories/orders"
	refreshtokensrepo "github.com/bookdelivery/backend/internal/server/repositories/refreshtokens"
	usersrepo "github.com/bookdelivery/backend/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// --- fake repositories ---

type fakeUsersRepo struct {
	exists    bool
	existsErr error

	created   []*models.User
	createErr error

	byEmail map[string]*models.User
	byID    map[int64]*models.User
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = int64(len(f.created) + 1)
	f.created = append(f.created, u)
	return u, nil
}

func (f *fakeUsersRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return f.exists, f.existsErr
}

type fakeRefreshRepo struct {
	createdUserID int64
	createdToken  string
	createErr     error

	findOut *models.RefreshToken
	findErr error

	deletedUserIDs []int64
	deleteErr      error
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID int64, token string, validity time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.createdUserID = userID
	f.createdToken = token
	return nil
}

func (f *fakeRefreshRepo) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) DeleteByUserID(ctx context.Context, userID int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedUserIDs = append(f.deletedUserIDs, userID)
	return nil
}

type fakeBooksRepo struct {
	byID map[int64]*models.Book

	decremented map[int64]int64
	decrementFn func(id, amount int64) error
}

func (f *fakeBooksRepo) Create(ctx context.Context, b *models.Book) (*models.Book, error) {
	b.ID = 1
	return b, nil
}

func (f *fakeBooksRepo) FindByID(ctx context.Context, id int64) (*models.Book, error) {
	if b, ok := f.byID[id]; ok {
		return b, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeBooksRepo) FindAll(ctx context.Context, offset, limit int64) ([]*models.Book, int64, error) {
	var out []*models.Book
	for _, b := range f.byID {
		out = append(out, b)
	}
	return out, int64(len(f.byID)), nil
}

func (f *fakeBooksRepo) Update(ctx context.Context, b *models.Book) (*models.Book, error) {
	if _, ok := f.byID[b.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	f.byID[b.ID] = b
	return b, nil
}

func (f *fakeBooksRepo) UpdateStock(ctx context.Context, id int64, stock int64) (*models.Book, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	b.Stock = stock
	return b, nil
}

func (f *fakeBooksRepo) DecrementStock(ctx context.Context, id int64, amount int64) error {
	if f.decrementFn != nil {
		if err := f.decrementFn(id, amount); err != nil {
			return err
		}
	}
	if f.decremented == nil {
		f.decremented = map[int64]int64{}
	}
	f.decremented[id] += amount
	return nil
}

type fakeOrdersRepo struct {
	created   *models.Order
	createErr error

	byID map[int64]*models.Order

	reports []*models.OrderReport
}

func (f *fakeOrdersRepo) Create(ctx context.Context, o *models.Order) (*models.Order, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	o.ID = 1
	o.CreatedAt = time.Now()
	f.created = o
	return o, nil
}

func (f *fakeOrdersRepo) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	if o, ok := f.byID[id]; ok {
		return o, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeOrdersRepo) FindByUserID(ctx context.Context, userID int64, offset, limit int64) ([]*models.Order, int64, error) {
	var out []*models.Order
	for _, o := range f.byID {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrdersRepo) FindBetweenDates(ctx context.Context, from, to time.Time, offset, limit int64) ([]*models.Order, int64, error) {
	var out []*models.Order
	for _, o := range f.byID {
		if !o.CreatedAt.Before(from) && o.CreatedAt.Before(to) {
			out = append(out, o)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrdersRepo) GetOrderReports(ctx context.Context, userID *int64, offset, limit int64) ([]*models.OrderReport, int64, error) {
	return f.reports, int64(len(f.reports)), nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeRefreshRepo
	b *fakeBooksRepo
	o *fakeOrdersRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository      { return m.u }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository {
	return m.r
}
func (m *fakeRepoManager) Books(db dbx.DBTX) booksrepo.Repository   { return m.b }
func (m *fakeRepoManager) Orders(db dbx.DBTX) ordersrepo.Repository { return m.o }
