package store

import (
	"context"
	"database/sql"
	"time"
)

// UpdateRepo handles narrative updates.
type UpdateRepo struct {
	db *sql.DB
}

func NewUpdateRepo(db *sql.DB) *UpdateRepo {
	return &UpdateRepo{db: db}
}

// Append stores the update's lines in one transaction so a multi-line update
// never lands partially. All lines share the submission timestamp.
func (r *UpdateRepo) Append(ctx context.Context, officerID, callID string, bodies []string, at time.Time) ([]Update, error) {
	var out []Update
	err := WithTx(r.db, func(tx *sql.Tx) error {
		for _, body := range bodies {
			res, err := tx.ExecContext(ctx, `
			INSERT INTO updates(officer_id, call_id, body, created_at)
			VALUES (?, ?, ?, ?)`, officerID, callID, body, at)
			if err != nil {
				return err
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			out = append(out, Update{ID: id, OfficerID: officerID, CallID: callID, Body: body, CreatedAt: at})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListAfter returns the call's updates with id greater than after, oldest
// first. Pass 0 for the full history.
func (r *UpdateRepo) ListAfter(ctx context.Context, officerID, callID string, after int64) ([]Update, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, officer_id, call_id, body, created_at FROM updates
	WHERE officer_id = ? AND call_id = ? AND id > ?
	ORDER BY id`, officerID, callID, after)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Update
	for rows.Next() {
		var u Update
		if err := rows.Scan(&u.ID, &u.OfficerID, &u.CallID, &u.Body, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
