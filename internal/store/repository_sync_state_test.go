package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsefest/pulse-sync/internal/logger"
	"github.com/pulsefest/pulse-sync/models"
)

var statusColumns = []string{
	"entity_type", "is_connected", "last_sync_at", "pending_changes",
	"last_error", "last_cursor", "last_task_state",
}

// ── cursor rows ───────────────────────────────────────────────────────

func TestGetStatus_NeverSyncedYieldsZeroStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSyncStateRepository(db, logger.Nop())

	mock.ExpectQuery("SELECT entity_type, is_connected").
		WithArgs("tickets").
		WillReturnRows(sqlmock.NewRows(statusColumns))

	status, err := repo.GetStatus(context.Background(), models.EntityTicket)

	require.NoError(t, err)
	assert.Equal(t, models.EntityTicket, status.EntityType)
	assert.Nil(t, status.LastSyncAt)
	assert.Empty(t, status.LastCursor)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetStatus_ScansFullRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSyncStateRepository(db, logger.Nop())

	syncedAt := time.Date(2026, 6, 12, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT entity_type, is_connected").
		WithArgs("tickets").
		WillReturnRows(sqlmock.NewRows(statusColumns).
			AddRow("tickets", true, syncedAt, 3, "timeout", "cur-9", "failed"))

	status, err := repo.GetStatus(context.Background(), models.EntityTicket)

	require.NoError(t, err)
	assert.True(t, status.IsConnected)
	require.NotNil(t, status.LastSyncAt)
	assert.Equal(t, syncedAt, *status.LastSyncAt)
	assert.EqualValues(t, 3, status.PendingChanges)
	assert.Equal(t, "cur-9", status.LastCursor)
	assert.Equal(t, models.TaskFailed, status.LastTaskState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertStatus_ReplacesRowInOneTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSyncStateRepository(db, logger.Nop())

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM entity_sync_status").
		WithArgs("tickets").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO entity_sync_status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpsertStatus(context.Background(), models.EntitySyncStatus{
		EntityType: models.EntityTicket,
		LastCursor: "cur-9",
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ── last pass result ──────────────────────────────────────────────────

func TestSaveResult_ReplacesPreviousResult(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSyncStateRepository(db, logger.Nop())

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM sync_results").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO sync_results").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.SaveResult(context.Background(), models.SyncResult{
		PassID:    "pass-1",
		StartedAt: time.Now(),
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLastResult_DecodesStoredPayload(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSyncStateRepository(db, logger.Nop())

	stored := models.SyncResult{PassID: "pass-1", Pulled: 17, Success: true}
	payload, err := json.Marshal(stored)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT payload FROM sync_results").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(string(payload)))

	result, err := repo.LastResult(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "pass-1", result.PassID)
	assert.EqualValues(t, 17, result.Pulled)
	assert.True(t, result.Success)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLastResult_NoPassFinishedYet(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSyncStateRepository(db, logger.Nop())

	mock.ExpectQuery("SELECT payload FROM sync_results").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}))

	_, err := repo.LastResult(context.Background())

	assert.ErrorIs(t, err, ErrNoSyncResult)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ── pass marker ───────────────────────────────────────────────────────

func TestAcquirePassMarker_FreeMarkerIsClaimed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSyncStateRepository(db, logger.Nop())

	mock.ExpectExec("UPDATE sync_pass_marker").WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.AcquirePassMarker(context.Background(), "pass-1", time.Now(), 10*time.Minute)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcquirePassMarker_HeldByFreshLease(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSyncStateRepository(db, logger.Nop())

	mock.ExpectExec("UPDATE sync_pass_marker").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.AcquirePassMarker(context.Background(), "pass-2", time.Now(), 10*time.Minute)

	assert.ErrorIs(t, err, ErrPassActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleasePassMarker_OnlyHolderReleases(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSyncStateRepository(db, logger.Nop())

	mock.ExpectExec("UPDATE sync_pass_marker").
		WillReturnResult(sqlmock.NewResult(0, 0))

	// releasing a marker re-acquired by someone else is a no-op
	require.NoError(t, repo.ReleasePassMarker(context.Background(), "pass-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
