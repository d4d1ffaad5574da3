package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// CallRepo handles call rows.
type CallRepo struct {
	db *sql.DB
}

func NewCallRepo(db *sql.DB) *CallRepo {
	return &CallRepo{db: db}
}

// Touch records the call, creating it on first sight and bumping updated_at
// after that.
func (r *CallRepo) Touch(ctx context.Context, officerID, callID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO calls(officer_id, id, created_at, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(officer_id, id) DO UPDATE SET
	 updated_at=excluded.updated_at;
	`, officerID, callID, at, at)
	return err
}

func (r *CallRepo) Get(ctx context.Context, officerID, callID string) (*Call, error) {
	var c Call
	err := r.db.QueryRowContext(ctx, `
	SELECT officer_id, id, created_at, updated_at FROM calls
	WHERE officer_id = ? AND id = ?`, officerID, callID).
		Scan(&c.OfficerID, &c.ID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByOfficer returns the officer's calls, most recently active first.
func (r *CallRepo) ListByOfficer(ctx context.Context, officerID string) ([]Call, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT officer_id, id, created_at, updated_at FROM calls
	WHERE officer_id = ? ORDER BY updated_at DESC, id DESC`, officerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Call
	for rows.Next() {
		var c Call
		if err := rows.Scan(&c.OfficerID, &c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Officers summarizes every officer that has received at least one call.
func (r *CallRepo) Officers(ctx context.Context) ([]Officer, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT officer_id, COUNT(*), MAX(updated_at) FROM calls
	GROUP BY officer_id ORDER BY officer_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Officer
	for rows.Next() {
		var o Officer
		if err := rows.Scan(&o.ID, &o.CallCount, &o.LastSeen); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
