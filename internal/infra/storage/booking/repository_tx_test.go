package booking

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ArtistBooking/internal/domain"
	"github.com/m04kA/SMC-ArtistBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-ArtistBooking/pkg/txmanager"
)

// failingConnector отдает соединения, у которых каждый запрос завершается заданной ошибкой драйвера
type failingConnector struct {
	err error
}

func (c failingConnector) Connect(context.Context) (driver.Conn, error) {
	return &failingConn{err: c.err}, nil
}

func (c failingConnector) Driver() driver.Driver { return failingDriver(c) }

type failingDriver failingConnector

func (d failingDriver) Open(string) (driver.Conn, error) {
	return &failingConn{err: d.err}, nil
}

type failingConn struct {
	err error
}

func (c *failingConn) Prepare(string) (driver.Stmt, error) { return nil, c.err }
func (c *failingConn) Close() error                        { return nil }
func (c *failingConn) Begin() (driver.Tx, error)           { return failingTx{}, nil }

func (c *failingConn) BeginTx(context.Context, driver.TxOptions) (driver.Tx, error) {
	return failingTx{}, nil
}

func (c *failingConn) QueryContext(context.Context, string, []driver.NamedValue) (driver.Rows, error) {
	return nil, c.err
}

func (c *failingConn) ExecContext(context.Context, string, []driver.NamedValue) (driver.Result, error) {
	return nil, c.err
}

type failingTx struct{}

func (failingTx) Commit() error   { return nil }
func (failingTx) Rollback() error { return nil }

func newFailingRepository(t *testing.T, driverErr error) (*Repository, *txmanager.TransactionManager) {
	t.Helper()

	db := sql.OpenDB(failingConnector{err: driverErr})
	t.Cleanup(func() { _ = db.Close() })

	wrapped := dbmetrics.Wrap(db, nil)
	return NewRepository(wrapped), txmanager.NewTransactionManager(wrapped)
}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ArtistID:    "artist-1",
		ClientName:  "Alice",
		ClientEmail: "alice@example.com",
		Date:        time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
		Time:        "14:00",
		Service:     "portrait",
		Status:      domain.StatusPending,
	}
}

func TestCreate_SerializationFailureInsideSerializableTx(t *testing.T) {
	repo, tm := newFailingRepository(t, &pq.Error{Code: "40001", Message: "could not serialize access"})

	err := tm.DoSerializable(context.Background(), func(txCtx context.Context) error {
		_, err := repo.Create(txCtx, pendingBooking())
		return err
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, txmanager.ErrSerialization)
	assert.ErrorIs(t, err, ErrExecQuery)
	assert.NotErrorIs(t, err, ErrSlotTaken)

	var pqErr *pq.Error
	require.ErrorAs(t, err, &pqErr)
	assert.Equal(t, pq.ErrorCode("40001"), pqErr.Code)
}

func TestCreate_ActiveSlotViolationInsideSerializableTx(t *testing.T) {
	repo, tm := newFailingRepository(t, &pq.Error{Code: "23505", Constraint: activeSlotIndex})

	err := tm.DoSerializable(context.Background(), func(txCtx context.Context) error {
		_, err := repo.Create(txCtx, pendingBooking())
		return err
	})

	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.NotErrorIs(t, err, txmanager.ErrSerialization)
}

func TestGetBookedSlots_KeepsDriverErrorInChain(t *testing.T) {
	repo, _ := newFailingRepository(t, &pq.Error{Code: "57P01", Message: "terminating connection"})

	day := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	_, err := repo.GetBookedSlots(context.Background(), "artist-1", day, day)

	assert.ErrorIs(t, err, ErrExecQuery)
	var pqErr *pq.Error
	assert.ErrorAs(t, err, &pqErr)
}
