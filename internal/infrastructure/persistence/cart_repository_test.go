package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/oilmart/backend/internal/domain/shared"
	"github.com/oilmart/backend/internal/domain/shopping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMockCartRepository(t *testing.T) (*GormCartRepository, sqlmock.Sqlmock, func()) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormCartRepository(gormDB), mock, func() { mockDB.Close() }
}

func TestGormCartRepository_Upsert(t *testing.T) {
	repo, mock, closeDB := newMockCartRepository(t)
	defer closeDB()

	item, err := shopping.NewCartItem(uuid.New(), uuid.New(), 5)
	require.NoError(t, err)

	// The second add for the same (user, product) pair must become an
	// UPDATE of the existing row, never a duplicate insert
	mock.ExpectExec(`INSERT INTO "cart_items" .* ON CONFLICT \("user_id","product_id"\) DO UPDATE SET .*quantity_litres.*`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Upsert(context.Background(), item))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCartRepository_FindByUserAndProduct_NotFound(t *testing.T) {
	repo, mock, closeDB := newMockCartRepository(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT \* FROM "cart_items" WHERE user_id = \$1 AND product_id = \$2 ORDER BY .* LIMIT .*`).
		WillReturnError(gorm.ErrRecordNotFound)

	item, err := repo.FindByUserAndProduct(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Nil(t, item)
}

func TestGormCartRepository_CountByUser(t *testing.T) {
	repo, mock, closeDB := newMockCartRepository(t)
	defer closeDB()

	userID := uuid.New()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(quantity_litres\), 0\) FROM "cart_items" WHERE user_id = \$1`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(12))

	total, err := repo.CountByUser(context.Background(), userID)

	assert.NoError(t, err)
	assert.Equal(t, int64(12), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCartRepository_ClearByUser(t *testing.T) {
	repo, mock, closeDB := newMockCartRepository(t)
	defer closeDB()

	userID := uuid.New()

	mock.ExpectExec(`DELETE FROM "cart_items" WHERE user_id = \$1`).
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 3))

	assert.NoError(t, repo.ClearByUser(context.Background(), userID))
	assert.NoError(t, mock.ExpectationsWereMet())
}
