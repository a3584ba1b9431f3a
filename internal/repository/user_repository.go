package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/forwarding-portal/internal/model"
)

const userColumns = "id,first_name,last_name,email,phone,password,mailbox_id,member_since,plan"

type UserRepo struct {
	DB  *sql.DB
	IDs *IDGenerator
}

func NewUserRepo(db *sql.DB, ids *IDGenerator) *UserRepo { return &UserRepo{DB: db, IDs: ids} }

// Create inserts the user with a generated mailbox id and a server-stamped
// membership date.  A mailbox collision regenerates the id; a duplicate
// email yields ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, in model.NewUser) (model.User, error) {
	u := model.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:        in.Phone,
		PasswordHash: in.PasswordHash,
		MemberSince:  r.IDs.now(),
		Plan:         in.Plan,
	}
	if u.Plan == "" {
		u.Plan = model.PlanBasic
	}
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		u.MailboxID = r.IDs.MailboxID(attempt)
		res, err := r.DB.ExecContext(ctx,
			"INSERT INTO users (first_name,last_name,email,phone,password,mailbox_id,member_since,plan) VALUES (?,?,?,?,?,?,?,?)",
			u.FirstName, u.LastName, u.Email, u.Phone, u.PasswordHash, u.MailboxID, u.MemberSince, u.Plan)
		if err != nil {
			if me, ok := mysqlError(err); ok && me.Number == errDupEntry {
				// The key name closes the message; the duplicate value sits
				// earlier and may contain anything.
				if strings.HasSuffix(me.Message, "uq_users_mailbox'") {
					continue
				}
				return model.User{}, ErrEmailExists
			}
			return model.User{}, fmt.Errorf("insert user: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return model.User{}, fmt.Errorf("insert user: %w", err)
		}
		u.ID = uint64(id)
		return u, nil
	}
	return model.User{}, ErrIDCollision
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (model.User, error) {
	var (
		u     model.User
		phone sql.NullString
	)
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &phone, &u.PasswordHash, &u.MailboxID, &u.MemberSince, &u.Plan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("select user: %w", err)
	}
	u.Phone = nullString(phone)
	return u, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
