package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/forwarding-portal/internal/model"
)

type ContactRepo struct {
	DB  *sql.DB
	IDs *IDGenerator
}

func NewContactRepo(db *sql.DB, ids *IDGenerator) *ContactRepo { return &ContactRepo{DB: db, IDs: ids} }

// Create stores an inquiry as unresolved with the current time.
func (r *ContactRepo) Create(ctx context.Context, in model.NewContact) (model.Contact, error) {
	c := model.Contact{
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
		Phone:         in.Phone,
		Type:          in.Type,
		PackageNumber: in.PackageNumber,
		Message:       in.Message,
		CreatedAt:     r.IDs.now(),
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO contacts (first_name,last_name,email,phone,type,package_number,message,created_at,resolved) VALUES (?,?,?,?,?,?,?,?,?)",
		c.FirstName, c.LastName, c.Email, c.Phone, c.Type, c.PackageNumber, c.Message, c.CreatedAt, false)
	if err != nil {
		return model.Contact{}, fmt.Errorf("insert contact: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Contact{}, fmt.Errorf("insert contact: %w", err)
	}
	c.ID = uint64(id)
	return c, nil
}

// List returns every inquiry, oldest first.
func (r *ContactRepo) List(ctx context.Context) ([]model.Contact, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,first_name,last_name,email,phone,type,package_number,message,created_at,resolved FROM contacts ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	out := []model.Contact{}
	for rows.Next() {
		var (
			c          model.Contact
			phone, pkg sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &phone, &c.Type, &pkg, &c.Message, &c.CreatedAt, &c.Resolved); err != nil {
			return nil, fmt.Errorf("list contacts: %w", err)
		}
		c.Phone = nullString(phone)
		c.PackageNumber = nullString(pkg)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return out, nil
}
