package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"testing"
	"time"

	leaveerrors "hris-payroll/internal/leave/errors"
	"hris-payroll/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// memRepo is a stateful fake that mimics the SQL semantics the service
// relies on (GREATEST(..., 0) deduction, id DESC ordering).
type memRepo struct {
	employees  map[uuid.UUID]bool
	types      []LeaveType
	requests   map[int64]*LeaveRequest
	balances   map[[2]uuid.UUID]float64
	nextID     int64
	deductions int
	failDeduct error
}

func newMemRepo() *memRepo {
	return &memRepo{
		employees: map[uuid.UUID]bool{},
		requests:  map[int64]*LeaveRequest{},
		balances:  map[[2]uuid.UUID]float64{},
	}
}

func (m *memRepo) WithTx(tx *sql.Tx) Repository { return m }
func (m *memRepo) EmployeeExists(ctx context.Context, employeeID uuid.UUID) (bool, error) {
	return m.employees[employeeID], nil
}
func (m *memRepo) FindLeaveType(ctx context.Context, id uuid.UUID) (*LeaveType, error) {
	for _, lt := range m.types {
		if lt.ID == id {
			return &lt, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *memRepo) ListLeaveTypes(ctx context.Context) ([]LeaveType, error) { return m.types, nil }
func (m *memRepo) CreateRequest(ctx context.Context, r *LeaveRequest) error {
	m.nextID++
	r.ID = m.nextID
	cp := *r
	m.requests[r.ID] = &cp
	return nil
}
func (m *memRepo) FindRequestForUpdate(ctx context.Context, id int64) (*LeaveRequest, error) {
	r, ok := m.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}
func (m *memRepo) SaveDecision(ctx context.Context, r *LeaveRequest) error {
	cp := *r
	m.requests[r.ID] = &cp
	return nil
}
func (m *memRepo) DeductBalance(ctx context.Context, employeeID, leaveTypeID uuid.UUID, days int) (int64, error) {
	if m.failDeduct != nil {
		return 0, m.failDeduct
	}
	key := [2]uuid.UUID{employeeID, leaveTypeID}
	cur, ok := m.balances[key]
	if !ok {
		return 0, nil
	}
	m.deductions++
	m.balances[key] = math.Max(cur-float64(days), 0)
	return 1, nil
}
func (m *memRepo) ListBalances(ctx context.Context, employeeID uuid.UUID) ([]LeaveBalance, error) {
	var out []LeaveBalance
	for key, days := range m.balances {
		if key[0] == employeeID {
			lt, _ := m.FindLeaveType(ctx, key[1])
			out = append(out, LeaveBalance{ID: uuid.New(), EmployeeID: key[0], LeaveTypeID: key[1], RemainingDays: days, LeaveType: lt})
		}
	}
	return out, nil
}
func (m *memRepo) ListRequestsByEmployee(ctx context.Context, employeeID uuid.UUID) ([]LeaveRequest, error) {
	var out []LeaveRequest
	for id := m.nextID; id >= 1; id-- {
		if r, ok := m.requests[id]; ok && r.EmployeeID == employeeID {
			out = append(out, *r)
		}
	}
	return out, nil
}
func (m *memRepo) ListRequestsByStatus(ctx context.Context, statuses []string) ([]LeaveRequest, error) {
	var out []LeaveRequest
	for id := m.nextID; id >= 1; id-- {
		r, ok := m.requests[id]
		if !ok {
			continue
		}
		for _, s := range statuses {
			if r.Status == s {
				out = append(out, *r)
			}
		}
	}
	return out, nil
}
func (m *memRepo) ListApprovedOverlapping(ctx context.Context, start, end time.Time) ([]LeaveRequest, error) {
	var out []LeaveRequest
	for _, r := range m.requests {
		if r.Status == StatusApproved && !r.StartDate.After(end) && !r.EndDate.Before(start) {
			out = append(out, *r)
		}
	}
	return out, nil
}

type fakeOutbox struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error                 { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

type fixture struct {
	svc      Service
	repo     *memRepo
	outbox   *fakeOutbox
	mock     sqlmock.Sqlmock
	employee uuid.UUID
	manager  uuid.UUID
	annual   uuid.UUID
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		repo:     newMemRepo(),
		outbox:   &fakeOutbox{},
		mock:     mock,
		employee: uuid.New(),
		manager:  uuid.New(),
		annual:   uuid.New(),
	}
	f.repo.employees[f.employee] = true
	f.repo.employees[f.manager] = true
	f.repo.types = []LeaveType{{ID: f.annual, Name: "Annual", DefaultDaysAllocated: 12}}
	f.svc = NewService(db, f.repo, f.outbox, nil, cfg, zap.NewNop())
	return f
}

func (f *fixture) submit(t *testing.T, start, end string) int64 {
	t.Helper()
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	resp, err := f.svc.Submit(context.Background(), f.employee.String(), SubmitLeaveRequest{
		LeaveTypeID: f.annual.String(),
		StartDate:   start,
		EndDate:     end,
	})
	require.NoError(t, err)
	return resp.RequestID
}

func (f *fixture) decide(id int64, status string) (DecideLeaveResponse, error) {
	return f.svc.Decide(context.Background(), f.manager.String(), strconv.FormatInt(id, 10), DecideLeaveRequest{Status: status})
}

func TestService_Submit(t *testing.T) {
	f := newFixture(t, Config{})

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	resp, err := f.svc.Submit(context.Background(), f.employee.String(), SubmitLeaveRequest{
		LeaveTypeID: f.annual.String(),
		StartDate:   "2024-03-10",
		EndDate:     "2024-03-14",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, resp.Status)
	assert.Equal(t, "Leave request submitted successfully", resp.Message)
	assert.Equal(t, StatusPending, f.repo.requests[resp.RequestID].Status)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestService_Submit_Rejections(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, f.employee.String(), SubmitLeaveRequest{LeaveTypeID: f.annual.String(), StartDate: "2024-03-14", EndDate: "2024-03-10"})
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)

	_, err = f.svc.Submit(ctx, f.employee.String(), SubmitLeaveRequest{LeaveTypeID: f.annual.String(), StartDate: "14/03/2024", EndDate: "2024-03-10"})
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)

	_, err = f.svc.Submit(ctx, "not-a-uuid", SubmitLeaveRequest{LeaveTypeID: f.annual.String(), StartDate: "2024-03-10", EndDate: "2024-03-10"})
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidEmployeeID)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err = f.svc.Submit(ctx, uuid.NewString(), SubmitLeaveRequest{LeaveTypeID: f.annual.String(), StartDate: "2024-03-10", EndDate: "2024-03-10"})
	assert.ErrorIs(t, err, leaveerrors.ErrEmployeeNotFound)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err = f.svc.Submit(ctx, f.employee.String(), SubmitLeaveRequest{LeaveTypeID: uuid.NewString(), StartDate: "2024-03-10", EndDate: "2024-03-10"})
	assert.ErrorIs(t, err, leaveerrors.ErrLeaveTypeNotFound)

	assert.Empty(t, f.repo.requests)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

// Pending 5-day request, balance of 3: approval floors the balance at zero
// and a second approval is refused without touching the balance again.
func TestService_Decide_ClampAndNoRedecide(t *testing.T) {
	f := newFixture(t, Config{})
	f.repo.balances[[2]uuid.UUID{f.employee, f.annual}] = 3
	id := f.submit(t, "2024-03-10", "2024-03-14")

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	resp, err := f.decide(id, StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, "Leave request approved", resp.Message)
	assert.Equal(t, float64(0), f.repo.balances[[2]uuid.UUID{f.employee, f.annual}])
	require.NotNil(t, f.repo.requests[id].BalanceDeductedAt)
	require.NotNil(t, f.repo.requests[id].ManagerApproverID)
	assert.Equal(t, f.manager, *f.repo.requests[id].ManagerApproverID)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err = f.decide(id, StatusApproved)
	assert.ErrorIs(t, err, leaveerrors.ErrRequestAlreadyDecided)
	assert.Equal(t, 1, f.repo.deductions)

	history, err := f.svc.History(context.Background(), f.employee.String())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, StatusApproved, history[0].Status)
	assert.Equal(t, 5, history[0].Days)

	require.Len(t, f.outbox.created, 1)
	assert.Equal(t, "leave.decided", f.outbox.created[0].EventType)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(f.outbox.created[0].Payload, &payload))
	assert.Equal(t, float64(5), payload["deducted_days"])

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestService_Decide_TwoStepApproval(t *testing.T) {
	f := newFixture(t, Config{})
	f.repo.balances[[2]uuid.UUID{f.employee, f.annual}] = 10
	id := f.submit(t, "2024-03-10", "2024-03-11")

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	resp, err := f.decide(id, StatusApprovedByManager)
	require.NoError(t, err)
	assert.Equal(t, "Leave request approved_by_manager", resp.Message)
	assert.Equal(t, float64(10), f.repo.balances[[2]uuid.UUID{f.employee, f.annual}])

	pending, err := f.svc.PendingQueue(context.Background())
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err = f.decide(id, StatusApprovedByManager)
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	_, err = f.decide(id, StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, float64(8), f.repo.balances[[2]uuid.UUID{f.employee, f.annual}])

	pending, err = f.svc.PendingQueue(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestService_PendingQueueAndHistoryOrdering(t *testing.T) {
	f := newFixture(t, Config{})
	ids := make([]int64, 5)
	for i := range ids {
		ids[i] = f.submit(t, "2024-04-01", "2024-04-02")
	}

	for id, status := range map[int64]string{
		ids[0]: StatusApproved,
		ids[1]: StatusRejected,
		ids[2]: StatusApprovedByManager,
	} {
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()
		_, err := f.decide(id, status)
		require.NoError(t, err)
	}

	requestIDs := func(rows []LeaveRequestResponse) []int64 {
		out := make([]int64, len(rows))
		for i, r := range rows {
			out[i] = r.RequestID
		}
		return out
	}

	pending, err := f.svc.PendingQueue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{ids[4], ids[3], ids[2]}, requestIDs(pending))
	assert.Equal(t, StatusApprovedByManager, pending[2].Status)

	history, err := f.svc.History(context.Background(), f.employee.String())
	require.NoError(t, err)
	assert.Equal(t, []int64{ids[4], ids[3], ids[2], ids[1], ids[0]}, requestIDs(history))
	assert.Equal(t, StatusRejected, history[3].Status)
	assert.Equal(t, StatusApproved, history[4].Status)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestService_Decide_PermissiveRedecideNeverDoubleDeducts(t *testing.T) {
	f := newFixture(t, Config{AllowTerminalRedecide: true})
	f.repo.balances[[2]uuid.UUID{f.employee, f.annual}] = 10
	id := f.submit(t, "2024-03-10", "2024-03-12")

	for _, status := range []string{StatusApproved, StatusRejected, StatusApproved} {
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()
		resp, err := f.decide(id, status)
		require.NoError(t, err)
		assert.Equal(t, status, resp.Status)
	}

	assert.Equal(t, float64(7), f.repo.balances[[2]uuid.UUID{f.employee, f.annual}])
	assert.Equal(t, 1, f.repo.deductions)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestService_Decide_NoBalanceIsNoop(t *testing.T) {
	f := newFixture(t, Config{})
	id := f.submit(t, "2024-03-10", "2024-03-10")

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	_, err := f.decide(id, StatusApproved)
	require.NoError(t, err)
	assert.Empty(t, f.repo.balances)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestService_Decide_Validation(t *testing.T) {
	f := newFixture(t, Config{})

	_, err := f.decide(1, "Cancelled")
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidDecisionStatus)

	_, err = f.svc.Decide(context.Background(), f.manager.String(), "abc", DecideLeaveRequest{Status: StatusApproved})
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidRequestID)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err = f.decide(999, StatusApproved)
	assert.ErrorIs(t, err, leaveerrors.ErrLeaveRequestNotFound)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestService_Decide_DeductFailureRollsBack(t *testing.T) {
	f := newFixture(t, Config{})
	f.repo.balances[[2]uuid.UUID{f.employee, f.annual}] = 10
	id := f.submit(t, "2024-03-10", "2024-03-10")
	f.repo.failDeduct = errors.New("db down")

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err := f.decide(id, StatusApproved)
	assert.Error(t, err)
	assert.Equal(t, StatusPending, f.repo.requests[id].Status)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestService_Balance(t *testing.T) {
	f := newFixture(t, Config{})
	f.repo.balances[[2]uuid.UUID{f.employee, f.annual}] = 4.5

	res, err := f.svc.Balance(context.Background(), f.employee.String())
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Annual", res[0].LeaveTypeName)
	assert.Equal(t, 4.5, res[0].RemainingDays)
}

func TestService_LeaveTypes_DedupesAndCaches(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := newMemRepo()
	first, second := uuid.New(), uuid.New()
	repo.types = []LeaveType{
		{ID: first, Name: "Annual", DefaultDaysAllocated: 12},
		{ID: second, Name: "Annual", DefaultDaysAllocated: 14},
		{ID: uuid.New(), Name: "Sick", DefaultDaysAllocated: 5},
	}

	rdb, rmock := redismock.NewClientMock()
	svc := NewService(db, repo, &fakeOutbox{}, rdb, Config{TypesCacheTTL: time.Hour}, zap.NewNop())

	want := dedupeLeaveTypes(repo.types)
	raw, err := json.Marshal(want)
	require.NoError(t, err)

	rmock.ExpectGet(leaveTypesCacheKey).RedisNil()
	rmock.ExpectSet(leaveTypesCacheKey, string(raw), time.Hour).SetVal("OK")

	res, err := svc.LeaveTypes(context.Background())
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, first.String(), res[0].ID)
	assert.Equal(t, "Sick", res[1].Name)

	rmock.ExpectGet(leaveTypesCacheKey).SetVal(string(raw))
	cached, err := svc.LeaveTypes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, res, cached)

	assert.NoError(t, rmock.ExpectationsWereMet())
	assert.Len(t, repo.types, 3)
}

func TestService_ApprovedDaysInRange(t *testing.T) {
	f := newFixture(t, Config{})
	f.repo.balances[[2]uuid.UUID{f.employee, f.annual}] = 30
	id := f.submit(t, "2024-01-30", "2024-02-02")

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	_, err := f.decide(id, StatusApproved)
	require.NoError(t, err)

	days, err := f.svc.ApprovedDaysInRange(context.Background(),
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	assert.Equal(t, 2, days[f.employee])
}
