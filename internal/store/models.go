package store

import "time"

// Call represents one incident under an officer.
type Call struct {
	OfficerID string
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Update represents one timestamped narrative line within a call. ID is the
// autoincrement row id, which doubles as the polling cursor.
type Update struct {
	ID        int64
	OfficerID string
	CallID    string
	Body      string
	CreatedAt time.Time
}

// Image represents one stored image file.
type Image struct {
	ID           string
	OfficerID    string
	CallID       string
	FileName     string
	OriginalName string
	SizeBytes    int64
	CreatedAt    time.Time
}

// Officer is the roster view derived from recorded calls.
type Officer struct {
	ID        string
	CallCount int
	LastSeen  time.Time
}
