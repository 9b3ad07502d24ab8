package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	db := setupTestDB(t, &User{})

	u, err := CreateUser(db, "Alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "Alice", u.Name)
	assert.True(t, u.Enabled)
	assert.NotEqual(t, "secret123", u.Password, "password must be stored hashed")

	_, err = CreateUser(db, "Other", "alice@example.com", "secret123")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestCreateUserValidation(t *testing.T) {
	db := setupTestDB(t, &User{})

	_, err := CreateUser(db, "A", "", "secret123")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = CreateUser(db, "A", "a@example.com", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCheckPassword(t *testing.T) {
	db := setupTestDB(t, &User{})
	u := mustCreateUser(t, db, "Alice", "alice@example.com")

	assert.True(t, CheckPassword(u, "secret123"))
	assert.False(t, CheckPassword(u, "wrong"))
}

func TestGetUserByID(t *testing.T) {
	db := setupTestDB(t, &User{})
	u := mustCreateUser(t, db, "Alice", "alice@example.com")

	got, err := GetUserByID(db, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	_, err = GetUserByID(db, 999999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateUser(t *testing.T) {
	db := setupTestDB(t, &User{})
	u := mustCreateUser(t, db, "Alice", "alice@example.com")

	err := UpdateUser(db, u.ID, "Alicia", "alicia@example.com", "")
	require.NoError(t, err)

	got, err := GetUserByID(db, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", got.Name)
	assert.Equal(t, "alicia@example.com", got.Email)
	assert.True(t, CheckPassword(got, "secret123"), "empty password leaves hash unchanged")

	assert.ErrorIs(t, UpdateUser(db, 999999, "X", "x@example.com", ""), ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	db := setupTestDB(t, &User{})
	u := mustCreateUser(t, db, "Alice", "alice@example.com")

	require.NoError(t, DeleteUser(db, u.ID))
	_, err := GetUserByID(db, u.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	assert.ErrorIs(t, DeleteUser(db, u.ID), ErrUserNotFound)

	// Soft delete: the row stays behind the deleted_at filter.
	var total int64
	require.NoError(t, db.Unscoped().Model(&User{}).Count(&total).Error)
	assert.EqualValues(t, 1, total)
}

func TestListUsers(t *testing.T) {
	db := setupTestDB(t, &User{})
	mustCreateUser(t, db, "Alice", "alice@example.com")
	mustCreateUser(t, db, "Bob", "bob@example.com")

	users, err := ListUsers(db)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
