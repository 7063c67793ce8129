package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/employee"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/database"
	"github.com/dayflow-hr/dayflow-backend/internal/repository/postgresql"
)

var (
	testDBOnce sync.Once
	testDB     *database.DB
	testDBErr  error
)

// tables in dependency order, children first
var testTables = []string{
	"revoked_tokens",
	"payroll_records",
	"leave_requests",
	"attendances",
	"employee_profiles",
	"users",
}

// setupTestDB connects once per package run and empties every table. Tests
// are skipped unless TEST_DATABASE_URL points at a disposable database.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping PostgreSQL integration test")
	}

	testDBOnce.Do(func() {
		ctx := context.Background()
		testDB, testDBErr = database.NewPostgreSQLDB(ctx, dsn)
		if testDBErr != nil {
			testDBErr = fmt.Errorf("failed to connect to test database: %w", testDBErr)
			return
		}
		testDBErr = testDB.ApplySchema(ctx)
	})
	require.NoError(t, testDBErr)

	truncateAllTables(t)
	return testDB
}

func truncateAllTables(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	tx, err := testDB.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	for _, table := range testTables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err, "failed to truncate table %s", table)
	}

	require.NoError(t, tx.Commit(ctx))
}

// createTestUser inserts an active user with a profile and returns its id.
func createTestUser(t *testing.T, db *database.DB, code, email string, role user.Role, department string) string {
	t.Helper()
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	created, err := postgresql.NewUserRepository(db).Create(ctx, user.User{
		EmployeeCode: code,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       user.StatusActive,
	})
	require.NoError(t, err)

	profile := employee.Employee{
		UserID:    created.ID,
		FirstName: "Test",
		LastName:  code,
	}
	if department != "" {
		profile.Department = &department
	}
	require.NoError(t, postgresql.NewEmployeeRepository(db).CreateProfile(ctx, profile))

	return created.ID
}
