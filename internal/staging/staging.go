package staging

import "strings"

// File is one staged image: the bytes to upload plus the display name and
// MIME tag shown in the pending list. Once added, the Set owns the entry
// until it is removed or the set is cleared after submission.
type File struct {
	Name string
	MIME string
	Data []byte
}

// Set holds files pending submission, in insertion order. All mutations
// happen on the single UI event loop, so the Set does no locking.
type Set struct {
	files []File
}

func NewSet() *Set {
	return &Set{}
}

// Add appends f when its MIME tag is image/*. Anything else is dropped
// without changing the set.
func (s *Set) Add(f File) bool {
	if !strings.HasPrefix(f.MIME, "image/") {
		return false
	}
	s.files = append(s.files, f)
	return true
}

// RemoveAt drops the file at position i. Out-of-range indices are a no-op.
func (s *Set) RemoveAt(i int) bool {
	if i < 0 || i >= len(s.files) {
		return false
	}
	s.files = append(s.files[:i], s.files[i+1:]...)
	return true
}

// Clear empties the set. Only called once a submission is confirmed.
func (s *Set) Clear() {
	s.files = nil
}

// List returns the staged files in order. The slice is a fresh copy;
// callers must not mutate the entries.
func (s *Set) List() []File {
	return append([]File(nil), s.files...)
}

func (s *Set) Len() int {
	return len(s.files)
}

// TotalSize is the combined payload size in bytes.
func (s *Set) TotalSize() int64 {
	var n int64
	for i := range s.files {
		n += int64(len(s.files[i].Data))
	}
	return n
}
