// Package memory holds in-process repository implementations with the same
// conditional-write semantics as the PostgreSQL ones. Service, handler and
// job tests run against it.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/employee"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/leave"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/payroll"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
)

// Store is a single in-memory database shared by all repositories built
// from it.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex

	users       map[string]user.User
	profiles    map[string]employee.Employee
	attendances map[string]attendance.Attendance
	leaves      map[string]leave.LeaveRequest
	payrolls    map[string]payroll.PayrollRecord

	// seq orders rows created within the same instant
	seq map[string]int64
	n   int64
}

func NewStore() *Store {
	return &Store{
		users:       make(map[string]user.User),
		profiles:    make(map[string]employee.Employee),
		attendances: make(map[string]attendance.Attendance),
		leaves:      make(map[string]leave.LeaveRequest),
		payrolls:    make(map[string]payroll.PayrollRecord),
		seq:         make(map[string]int64),
	}
}

type txKey struct{}

// WithinTransaction serializes fn against every other transaction on the
// store. Nested calls join the outer transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, true))
}

func (s *Store) newID() string {
	id := uuid.NewString()
	s.n++
	s.seq[id] = s.n
	return id
}

func (s *Store) displayName(userID string) *string {
	p, ok := s.profiles[userID]
	if !ok {
		return nil
	}
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return nil
	}
	return &name
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// dayKey compares calendar dates regardless of location.
func dayKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

func page[T any](items []T, pageNum, limit int) []T {
	if limit <= 0 {
		return items
	}
	start := (pageNum - 1) * limit
	if start >= len(items) {
		return nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func sortByKey[T any](items []T, less func(a, b T) bool) {
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
}
