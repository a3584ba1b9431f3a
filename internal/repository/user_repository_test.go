package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/forwarding-portal/internal/model"
)

var insertUserSQL = regexp.QuoteMeta("INSERT INTO users (first_name,last_name,email,phone,password,mailbox_id,member_since,plan) VALUES (?,?,?,?,?,?,?,?)")

func newUser() model.NewUser {
	return model.NewUser{FirstName: "Ana", LastName: "Ruiz", Email: " Ana@Example.com", PasswordHash: "$2a$hash"}
}

func TestUserCreate_Success(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db, fixedIDs())

	mock.ExpectExec(insertUserSQL).
		WithArgs("Ana", "Ruiz", "ana@example.com", nil, "$2a$hash", "#EV15000", fixedNow, "basic").
		WillReturnResult(sqlmock.NewResult(42, 1))

	u, err := repo.Create(context.Background(), newUser())
	require.NoError(t, err)
	assert.Equal(t, uint64(42), u.ID)
	assert.Equal(t, "#EV15000", u.MailboxID)
	assert.Equal(t, fixedNow, u.MemberSince)
	assert.Equal(t, model.PlanBasic, u.Plan)
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db, fixedIDs())

	mock.ExpectExec(insertUserSQL).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'ana@example.com' for key 'users.uq_users_email'"})

	_, err := repo.Create(context.Background(), newUser())
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestUserCreate_DuplicateEmailNamingMailboxKey(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db, fixedIDs())

	mock.ExpectExec(insertUserSQL).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'uq_users_mailbox@example.com' for key 'users.uq_users_email'"})

	_, err := repo.Create(context.Background(), newUser())
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestUserCreate_MailboxCollisionWithoutTablePrefix(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db, fixedIDs())

	mock.ExpectExec(insertUserSQL).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '#EV15000' for key 'uq_users_mailbox'"})
	mock.ExpectExec(insertUserSQL).
		WillReturnResult(sqlmock.NewResult(44, 1))

	u, err := repo.Create(context.Background(), newUser())
	require.NoError(t, err)
	assert.Equal(t, uint64(44), u.ID)
}

func TestUserCreate_MailboxCollisionRetries(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db, fixedIDs())

	mock.ExpectExec(insertUserSQL).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "#EV15000", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '#EV15000' for key 'users.uq_users_mailbox'"})
	mock.ExpectExec(insertUserSQL).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "#EV00007", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(43, 1))

	u, err := repo.Create(context.Background(), newUser())
	require.NoError(t, err)
	assert.Equal(t, "#EV00007", u.MailboxID)
}

func TestUserCreate_GivesUpAfterCollisions(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db, fixedIDs())

	for i := 0; i < maxIDAttempts; i++ {
		mock.ExpectExec(insertUserSQL).
			WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry for key 'users.uq_users_mailbox'"})
	}

	_, err := repo.Create(context.Background(), newUser())
	assert.ErrorIs(t, err, ErrIDCollision)
}

func TestUserCreate_DBError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db, fixedIDs())

	mock.ExpectExec(insertUserSQL).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), newUser())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert user: db down")
}

func TestUserGetByEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db, fixedIDs())

	rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "phone", "password", "mailbox_id", "member_since", "plan"}).
		AddRow(7, "Ana", "Ruiz", "ana@example.com", "+507 6000-0000", "$2a$hash", "#EV15000", fixedNow, "premium")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + userColumns + " FROM users WHERE email=? LIMIT 1")).
		WithArgs("ana@example.com").
		WillReturnRows(rows)

	u, err := repo.GetByEmail(context.Background(), " ANA@example.com ")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), u.ID)
	require.NotNil(t, u.Phone)
	assert.Equal(t, "+507 6000-0000", *u.Phone)
	assert.Equal(t, "premium", u.Plan)
}

func TestUserGetByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db, fixedIDs())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + userColumns + " FROM users WHERE id=? LIMIT 1")).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}
