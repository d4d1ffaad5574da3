package staging

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// LoadFile reads path into a candidate File. The MIME tag comes from the
// file extension when the system knows it, otherwise from sniffing the
// leading bytes. LoadFile does not filter: admission is Set.Add's job.
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read %s: %w", path, err)
	}
	return File{Name: filepath.Base(path), MIME: detectMIME(path, data), Data: data}, nil
}

func detectMIME(path string, data []byte) string {
	mt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mt == "" {
		mt = http.DetectContentType(data)
	}
	// drop parameters like "; charset=utf-8"
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return mt
}
