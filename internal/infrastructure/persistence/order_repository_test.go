package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/oilmart/backend/internal/domain/order"
	"github.com/oilmart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMockOrderRepository(t *testing.T) (*GormOrderRepository, sqlmock.Sqlmock, func()) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormOrderRepository(gormDB), mock, func() { mockDB.Close() }
}

func TestGormOrderRepository_FindByID(t *testing.T) {
	t.Run("loads the order with its items", func(t *testing.T) {
		repo, mock, closeDB := newMockOrderRepository(t)
		defer closeDB()

		orderID := uuid.New()

		head := sqlmock.NewRows([]string{"id", "order_number", "status", "payment_status", "final_amount"}).
			AddRow(orderID, "ORD-1756400000000-123", "pending", "pending", decimal.NewFromInt(920))
		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(orderID, 1).
			WillReturnRows(head)

		items := sqlmock.NewRows([]string{"id", "order_id", "product_name", "quantity_litres", "total_price"}).
			AddRow(uuid.New(), orderID, "Castrol GTX 15W-40", 2, decimal.NewFromInt(1000))
		mock.ExpectQuery(`SELECT \* FROM "order_items" WHERE "order_items"\."order_id" = \$1`).
			WithArgs(orderID).
			WillReturnRows(items)

		o, err := repo.FindByID(context.Background(), orderID)

		assert.NoError(t, err)
		require.NotNil(t, o)
		assert.Equal(t, "ORD-1756400000000-123", o.OrderNumber)
		require.Len(t, o.Items, 1)
		assert.Equal(t, int64(2), o.Items[0].QuantityLitres)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing order to ErrNotFound", func(t *testing.T) {
		repo, mock, closeDB := newMockOrderRepository(t)
		defer closeDB()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WillReturnError(gorm.ErrRecordNotFound)

		o, err := repo.FindByID(context.Background(), uuid.New())

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Nil(t, o)
	})
}

func TestGormOrderRepository_FindExpiredPending(t *testing.T) {
	repo, mock, closeDB := newMockOrderRepository(t)
	defer closeDB()

	cutoff := time.Now().Add(-30 * time.Minute)
	staleID := uuid.New()

	head := sqlmock.NewRows([]string{"id", "order_number", "status", "payment_status"}).
		AddRow(staleID, "ORD-1756300000000-001", "pending", "pending")
	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE status = \$1 AND payment_status IN \(\$2,\$3\) AND created_at < \$4 ORDER BY created_at ASC LIMIT .*`).
		WithArgs(order.StatusPending, order.PaymentStatusPending, order.PaymentStatusFailed, cutoff).
		WillReturnRows(head)

	mock.ExpectQuery(`SELECT \* FROM "order_items" WHERE "order_items"\."order_id" = \$1`).
		WithArgs(staleID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id"}))

	orders, err := repo.FindExpiredPending(context.Background(), cutoff, 50)

	assert.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, staleID, orders[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOrderRepository_FindByPaymentSession(t *testing.T) {
	repo, mock, closeDB := newMockOrderRepository(t)
	defer closeDB()

	orderID := uuid.New()

	head := sqlmock.NewRows([]string{"id", "order_number", "payment_session_id"}).
		AddRow(orderID, "ORD-1756400000000-456", "sess_abc123")
	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE payment_session_id = \$1 ORDER BY .* LIMIT .*`).
		WithArgs("sess_abc123", 1).
		WillReturnRows(head)

	mock.ExpectQuery(`SELECT \* FROM "order_items" WHERE "order_items"\."order_id" = \$1`).
		WithArgs(orderID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id"}))

	o, err := repo.FindByPaymentSession(context.Background(), "sess_abc123")

	assert.NoError(t, err)
	assert.Equal(t, orderID, o.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
