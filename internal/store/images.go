package store

import (
	"context"
	"database/sql"
)

// ImageRepo handles image records.
type ImageRepo struct {
	db *sql.DB
}

func NewImageRepo(db *sql.DB) *ImageRepo {
	return &ImageRepo{db: db}
}

func (r *ImageRepo) Record(ctx context.Context, img Image) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO images(id, officer_id, call_id, file_name, original_name, size_bytes, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`,
		img.ID, img.OfficerID, img.CallID, img.FileName, img.OriginalName, img.SizeBytes, img.CreatedAt)
	return err
}

// ListByCall returns the call's images in arrival order.
func (r *ImageRepo) ListByCall(ctx context.Context, officerID, callID string) ([]Image, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, officer_id, call_id, file_name, original_name, size_bytes, created_at FROM images
	WHERE officer_id = ? AND call_id = ?
	ORDER BY created_at, file_name`, officerID, callID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.ID, &img.OfficerID, &img.CallID, &img.FileName, &img.OriginalName, &img.SizeBytes, &img.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}
