package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"hris-payroll/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOutboxEvent(t *testing.T) {
	event, err := kafka.NewOutboxEvent("req-1", "payroll_period", "7", "payroll.generated", "hr.payroll.generated.v1", map[string]int{"generated": 3})
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, kafka.OutboxStatusPending, event.Status)
	assert.NoError(t, kafka.ValidateOutboxEvent(event))

	var payload map[string]int
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Equal(t, 3, payload["generated"])
}

func TestOutboxRepository_CreateInTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := kafka.NewOutboxRepository(db)
	event, err := kafka.NewOutboxEvent("req-1", "leave_request", "42", "leave.decided", "hr.leave.decided.v1", map[string]string{"status": "Approved"})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO outbox_events").
		WithArgs(event.ID, "req-1", "leave_request", "42", "leave.decided", "hr.leave.decided.v1", event.Payload, kafka.OutboxStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.WithTx(tx).Create(context.Background(), event))
	require.NoError(t, tx.Commit())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_CreateRejectsInvalid(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	err = kafka.NewOutboxRepository(db).Create(context.Background(), kafka.OutboxEvent{ID: "x", Status: kafka.OutboxStatusPending})
	assert.Error(t, err)
}

func TestOutboxRepository_ListPendingClaimsRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	leaseEnd := time.Now().Add(30 * time.Second)
	mock.ExpectQuery(`(?s)UPDATE outbox_events o\s+SET next_retry_at.*FOR UPDATE SKIP LOCKED.*RETURNING`).
		WithArgs(kafka.OutboxStatusPending, kafka.OutboxStatusFailed, 10, 30, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "request_id", "aggregate_type", "aggregate_id", "event_type", "topic", "payload", "status", "retry_count", "next_retry_at"}).
			AddRow("evt-1", "req-1", "payroll_period", "7", "payroll.generated", "hr.payroll.generated.v1", []byte(`{}`), "pending", 0, leaseEnd))

	events, err := kafka.NewOutboxRepository(db).ListPending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "evt-1", events[0].ID)
	assert.Equal(t, "req-1", events[0].RequestID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE outbox_events\s+SET status = \$2,\s+retry_count = retry_count \+ 1`).
		WithArgs("evt-1", kafka.OutboxStatusFailed, "broker down").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, kafka.NewOutboxRepository(db).MarkFailed(context.Background(), "evt-1", "broker down"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateOutboxEvent(t *testing.T) {
	valid, err := kafka.NewOutboxEvent("", "leave_request", "42", "leave.decided", "hr.leave.decided.v1", map[string]string{})
	require.NoError(t, err)
	assert.NoError(t, kafka.ValidateOutboxEvent(valid))

	sent := valid
	sent.Status = kafka.OutboxStatusSent
	assert.Error(t, kafka.ValidateOutboxEvent(sent))

	orphan := valid
	orphan.AggregateID = ""
	assert.Error(t, kafka.ValidateOutboxEvent(orphan))
}
