package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/forwarding-portal/internal/model"
)

const packageColumns = "id,tracking_id,user_id,description,weight,status,estimated_date,received_date,transit_date,arrived_date,ready_date,delivered_date,cost"

// statusColumns names the date column stamped when a package enters each
// status.
var statusColumns = map[model.Status]string{
	model.StatusReceivedUS: "received_date",
	model.StatusTransit:    "transit_date",
	model.StatusArrived:    "arrived_date",
	model.StatusReady:      "ready_date",
	model.StatusDelivered:  "delivered_date",
}

// PackageRepo provides data access to the packages table.
type PackageRepo struct {
	DB  *sql.DB
	IDs *IDGenerator
}

func NewPackageRepo(db *sql.DB, ids *IDGenerator) *PackageRepo {
	return &PackageRepo{DB: db, IDs: ids}
}

// Create registers a package for in.UserID with a generated tracking id and
// the received date set to now.  A tracking id collision regenerates the
// id; an unknown owner yields ErrNotFound.
func (r *PackageRepo) Create(ctx context.Context, in model.NewPackage) (model.Package, error) {
	now := r.IDs.now()
	p := model.Package{
		UserID:        in.UserID,
		Description:   in.Description,
		Weight:        in.Weight,
		Status:        model.StatusReceivedUS,
		EstimatedDate: utcPtr(in.EstimatedDate),
		ReceivedDate:  &now,
		Cost:          in.Cost,
	}
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		p.TrackingID = r.IDs.TrackingID()
		res, err := r.DB.ExecContext(ctx,
			"INSERT INTO packages (tracking_id,user_id,description,weight,status,estimated_date,received_date,cost) VALUES (?,?,?,?,?,?,?,?)",
			p.TrackingID, p.UserID, p.Description, p.Weight, p.Status, p.EstimatedDate, p.ReceivedDate, p.Cost)
		if err != nil {
			if me, ok := mysqlError(err); ok {
				switch me.Number {
				case errDupEntry:
					continue
				case errNoReferenced:
					return model.Package{}, ErrNotFound
				}
			}
			return model.Package{}, fmt.Errorf("insert package: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return model.Package{}, fmt.Errorf("insert package: %w", err)
		}
		p.ID = uint64(id)
		return p, nil
	}
	return model.Package{}, ErrIDCollision
}

// ListByUser returns every package owned by userID, oldest first.  A user
// without packages gets an empty, non-nil slice.
func (r *PackageRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Package, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+packageColumns+" FROM packages WHERE user_id=? ORDER BY id", userID)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()

	out := []model.Package{}
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("list packages: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	return out, nil
}

// GetByTrackingID fetches one package.
func (r *PackageRepo) GetByTrackingID(ctx context.Context, trackingID string) (model.Package, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+packageColumns+" FROM packages WHERE tracking_id=? LIMIT 1", trackingID)
	p, err := scanPackage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Package{}, ErrNotFound
		}
		return model.Package{}, fmt.Errorf("select package: %w", err)
	}
	return p, nil
}

// UpdateStatus moves the package to status and stamps the date column of
// that status with at, or now when at is nil.  The row is locked while the
// transition is checked so concurrent updates cannot both advance it.
func (r *PackageRepo) UpdateStatus(ctx context.Context, trackingID string, status model.Status, at *time.Time) (model.Package, error) {
	if !status.Valid() {
		return model.Package{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	stamp := r.IDs.now()
	if at != nil {
		stamp = at.UTC().Truncate(time.Second)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Package{}, fmt.Errorf("begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	row := tx.QueryRowContext(ctx,
		"SELECT "+packageColumns+" FROM packages WHERE tracking_id=? LIMIT 1 FOR UPDATE", trackingID)
	p, err := scanPackage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Package{}, ErrNotFound
		}
		return model.Package{}, fmt.Errorf("lock package: %w", err)
	}
	if !model.CanTransition(p.Status, status) {
		return model.Package{}, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, p.Status, status)
	}

	col := statusColumns[status]
	if _, err := tx.ExecContext(ctx,
		"UPDATE packages SET status=?, "+col+"=? WHERE id=?", status, stamp, p.ID); err != nil {
		return model.Package{}, fmt.Errorf("update package: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return model.Package{}, fmt.Errorf("commit: %w", err)
	}
	committed = true

	p.Status = status
	setDate(&p, status, stamp)
	return p, nil
}

func setDate(p *model.Package, s model.Status, t time.Time) {
	switch s {
	case model.StatusReceivedUS:
		p.ReceivedDate = &t
	case model.StatusTransit:
		p.TransitDate = &t
	case model.StatusArrived:
		p.ArrivedDate = &t
	case model.StatusReady:
		p.ReadyDate = &t
	case model.StatusDelivered:
		p.DeliveredDate = &t
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPackage(s rowScanner) (model.Package, error) {
	var (
		p                                                       model.Package
		status                                                  string
		estimated, received, transit, arrived, ready, delivered sql.NullTime
		cost                                                    sql.NullString
	)
	if err := s.Scan(&p.ID, &p.TrackingID, &p.UserID, &p.Description, &p.Weight, &status,
		&estimated, &received, &transit, &arrived, &ready, &delivered, &cost); err != nil {
		return model.Package{}, err
	}
	p.Status = model.Status(status)
	p.EstimatedDate = nullTime(estimated)
	p.ReceivedDate = nullTime(received)
	p.TransitDate = nullTime(transit)
	p.ArrivedDate = nullTime(arrived)
	p.ReadyDate = nullTime(ready)
	p.DeliveredDate = nullTime(delivered)
	p.Cost = nullString(cost)
	return p, nil
}

func nullTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC().Truncate(time.Second)
	return &u
}
