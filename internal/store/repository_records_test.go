package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsefest/pulse-sync/internal/logger"
	"github.com/pulsefest/pulse-sync/models"
)

func TestRecordApply_InsertsFirstSnapshot(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecordRepository(db, logger.Nop())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT version FROM entity_records").
		WithArgs("tick-1", "tickets").
		WillReturnRows(sqlmock.NewRows([]string{"version"}))
	mock.ExpectExec("INSERT INTO entity_records").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	stamped := time.Now()
	err := repo.Apply(context.Background(), models.EntitySnapshot{
		EntityType: models.EntityTicket,
		EntityID:   "tick-1",
		Version:    1,
		UpdatedAt:  &stamped,
		Fields:     models.Payload{"holder": "A. Moss"},
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordApply_NewerSnapshotUpdatesCache(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecordRepository(db, logger.Nop())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT version FROM entity_records").
		WithArgs("tick-1", "tickets").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(2))
	mock.ExpectExec("UPDATE entity_records").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Apply(context.Background(), models.EntitySnapshot{
		EntityType: models.EntityTicket,
		EntityID:   "tick-1",
		Version:    3,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordApply_StaleSnapshotIsIgnored(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecordRepository(db, logger.Nop())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT version FROM entity_records").
		WithArgs("tick-1", "tickets").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(5))
	mock.ExpectCommit()

	err := repo.Apply(context.Background(), models.EntitySnapshot{
		EntityType: models.EntityTicket,
		EntityID:   "tick-1",
		Version:    3,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordGet_NeverPulled(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecordRepository(db, logger.Nop())

	mock.ExpectQuery("SELECT version, deleted, updated_at, fields FROM entity_records").
		WithArgs("tick-404", "tickets").
		WillReturnRows(sqlmock.NewRows([]string{"version", "deleted", "updated_at", "fields"}))

	_, err := repo.Get(context.Background(), models.EntityTicket, "tick-404")

	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordListByType_DecodesFields(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecordRepository(db, logger.Nop())

	stamped := time.Date(2026, 6, 12, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT entity_id, version, deleted, updated_at, fields FROM entity_records").
		WithArgs("tickets").
		WillReturnRows(sqlmock.NewRows([]string{"entity_id", "version", "deleted", "updated_at", "fields"}).
			AddRow("tick-1", 2, false, stamped, `{"holder":"A. Moss"}`).
			AddRow("tick-2", 1, true, stamped, ""))

	snaps, err := repo.ListByType(context.Background(), models.EntityTicket)

	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, "A. Moss", snaps[0].Fields["holder"])
	assert.True(t, snaps[1].Deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
