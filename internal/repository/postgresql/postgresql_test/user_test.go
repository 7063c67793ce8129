package postgresql_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/employee"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/repository/postgresql"
)

func TestUserRepository_CreateAndLookup(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(db)

	id := createTestUser(t, db, "EMP001", "ada@example.com", user.RoleEmployee, "Engineering")

	// Test 1: lookup by id
	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "EMP001", got.EmployeeCode)
	assert.Equal(t, user.StatusActive, got.Status)

	// Test 2: lookup by email, case insensitive
	got, err = repo.GetByIdentifier(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)

	// Test 3: lookup by employee code
	got, err = repo.GetByIdentifier(ctx, "EMP001")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)

	// Test 4: unknown identifiers
	_, err = repo.GetByIdentifier(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	_, err = repo.GetByID(ctx, "0190c0de-0000-7000-8000-000000000000")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepository_Create_Duplicates(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(db)

	createTestUser(t, db, "EMP001", "ada@example.com", user.RoleEmployee, "")

	// Same email
	_, err := repo.Create(ctx, user.User{
		EmployeeCode: "EMP002",
		Email:        "ada@example.com",
		PasswordHash: "x",
		Role:         user.RoleEmployee,
		Status:       user.StatusActive,
	})
	assert.ErrorIs(t, err, user.ErrEmailExists)

	// Same employee code
	_, err = repo.Create(ctx, user.User{
		EmployeeCode: "EMP001",
		Email:        "grace@example.com",
		PasswordHash: "x",
		Role:         user.RoleEmployee,
		Status:       user.StatusActive,
	})
	assert.ErrorIs(t, err, user.ErrEmployeeCodeExists)
}

func TestUserRepository_UpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(db)

	id := createTestUser(t, db, "EMP001", "ada@example.com", user.RoleEmployee, "")

	require.NoError(t, repo.UpdateStatus(ctx, id, user.StatusInactive))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, user.StatusInactive, got.Status)

	err = repo.UpdateStatus(ctx, "0190c0de-0000-7000-8000-000000000000", user.StatusActive)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestEmployeeRepository_ProfileAndList(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(db)

	createTestUser(t, db, "ADM001", "admin@example.com", user.RoleAdmin, "Management")
	ada := createTestUser(t, db, "EMP001", "ada@example.com", user.RoleEmployee, "Engineering")
	createTestUser(t, db, "EMP002", "grace@example.com", user.RoleEmployee, "Engineering")
	createTestUser(t, db, "EMP003", "linus@example.com", user.RoleEmployee, "Finance")

	// Duplicate profile
	err := repo.CreateProfile(ctx, employee.Employee{UserID: ada, FirstName: "Ada", LastName: "L"})
	assert.ErrorIs(t, err, employee.ErrProfileExists)

	// Update
	phone := "+441234567890"
	first := "Ada"
	require.NoError(t, repo.UpdateProfile(ctx, ada, employee.UpdateProfileRequest{FirstName: &first, Phone: &phone}))

	profile, err := repo.GetByUserID(ctx, ada)
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.FirstName)
	assert.Equal(t, "EMP001", profile.LastName)
	require.NotNil(t, profile.Phone)
	assert.Equal(t, phone, *profile.Phone)
	assert.Equal(t, "ada@example.com", profile.Email)

	// List excludes admins
	all, total, err := repo.List(ctx, employee.EmployeeFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)

	department := "Engineering"
	engineers, total, err := repo.List(ctx, employee.EmployeeFilter{Department: &department, Page: 2, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, engineers, 1)

	search := "linus"
	found, total, err := repo.List(ctx, employee.EmployeeFilter{Search: &search, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "EMP003", found[0].EmployeeCode)

	_, err = repo.GetByUserID(ctx, "0190c0de-0000-7000-8000-000000000000")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
