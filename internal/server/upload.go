package server

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jask/fieldpost/internal/intake"
	"github.com/jask/fieldpost/internal/store"
)

const updateStampLayout = "2006-01-02 15:04:05"

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// upload handles text updates and image files for one officer/call pair.
// Everything arrives in a single multipart request; per-item failures are
// collected and joined into the envelope rather than aborting the rest.
func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	if err := c.Request.ParseMultipartForm(h.maxUpload); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"success": false, "error": "upload too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid multipart form"})
		return
	}

	officerID := c.PostForm("officer_id")
	callIDInput := c.PostForm("call_id")

	if officerID == "" {
		log.Printf("upload rejected: missing officer id")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Officer ID is required"})
		return
	}
	if callIDInput == "" {
		log.Printf("upload rejected: missing call id")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Call ID is required"})
		return
	}

	callID := callIDInput
	newCall := false
	if callID == intake.NewCallSentinel {
		callID = "CALL_" + time.Now().Format("20060102_150405")
		newCall = true
		log.Printf("new call %s opened for %s", callID, officerID)
	}

	if strings.ContainsAny(officerID, `/\`) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid Officer ID"})
		return
	}
	if strings.ContainsAny(callID, `/\`) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid Call ID"})
		return
	}

	safeOfficer := sanitizeID(officerID)
	safeCall := sanitizeID(callID)
	callDir := filepath.Join(h.dataDir, safeOfficer, safeCall)
	imageDir := filepath.Join(callDir, "images")
	// the full tree exists after any valid upload, data or not
	if err := os.MkdirAll(imageDir, 0o755); err != nil {
		log.Printf("create %s: %v", imageDir, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "An internal server error occurred"})
		return
	}

	ctx := c.Request.Context()
	now := time.Now()
	var (
		errs        []string
		textSaved   bool
		imagesSaved []string
	)

	if err := h.calls.Touch(ctx, safeOfficer, safeCall, now.UTC()); err != nil {
		log.Printf("record call %s/%s: %v", safeOfficer, safeCall, err)
		errs = append(errs, fmt.Sprintf("Could not record call: %v", err))
	}

	// presence of the field decides, not its content
	if values, ok := c.Request.MultipartForm.Value["text_update"]; ok && len(values) > 0 {
		text := values[0]
		lines := splitLines(text)
		if len(lines) == 0 {
			lines = []string{""}
		}
		stamp := now.Format(updateStampLayout)
		if err := appendUpdates(filepath.Join(callDir, "updates.txt"), stamp, lines); err != nil {
			log.Printf("append updates for %s/%s: %v", safeOfficer, safeCall, err)
			errs = append(errs, fmt.Sprintf("Could not save text update: %v", err))
		} else {
			textSaved = true
			if _, err := h.updates.Append(ctx, safeOfficer, safeCall, lines, now.UTC()); err != nil {
				log.Printf("record updates for %s/%s: %v", safeOfficer, safeCall, err)
				errs = append(errs, fmt.Sprintf("Could not record text update: %v", err))
			}
		}
	}

	var files []*multipart.FileHeader
	if c.Request.MultipartForm != nil {
		files = c.Request.MultipartForm.File["image_files"]
	}
	for _, fh := range files {
		if fh.Filename == "" {
			continue
		}
		if !allowedFile(fh.Filename) {
			log.Printf("rejected %s for %s/%s: file type not allowed", fh.Filename, safeOfficer, safeCall)
			errs = append(errs, "File type not allowed: "+fh.Filename)
			continue
		}
		name := uniqueImageName(fh.Filename, time.Now())
		dest := filepath.Join(imageDir, name)
		if err := c.SaveUploadedFile(fh, dest); err != nil {
			log.Printf("save %s: %v", dest, err)
			errs = append(errs, fmt.Sprintf("Could not save image %s: %v", safeFileName(fh.Filename), err))
			continue
		}
		imagesSaved = append(imagesSaved, name)
		img := store.Image{
			ID:           uuid.NewString(),
			OfficerID:    safeOfficer,
			CallID:       safeCall,
			FileName:     name,
			OriginalName: filepath.Base(fh.Filename),
			SizeBytes:    fh.Size,
			CreatedAt:    now.UTC(),
		}
		if err := h.images.Record(ctx, img); err != nil {
			log.Printf("record image %s: %v", name, err)
			errs = append(errs, fmt.Sprintf("Could not record image %s: %v", safeFileName(fh.Filename), err))
		}
	}

	success := len(errs) == 0
	resp := gin.H{"success": success}
	if newCall {
		resp["call_id"] = callID
	}
	if len(errs) > 0 {
		resp["error"] = strings.Join(errs, "; ")
	}
	if textSaved || len(imagesSaved) > 0 {
		msg := "Data processed."
		if len(imagesSaved) > 0 {
			msg += fmt.Sprintf(" Saved %d image(s).", len(imagesSaved))
		}
		resp["message"] = msg
	} else if len(errs) == 0 {
		resp["message"] = "No new data provided to save."
	}

	status := http.StatusOK
	if !success {
		status = http.StatusInternalServerError
	}
	c.JSON(status, resp)
}

// sanitizeID reduces an id to filesystem-safe characters for use as a
// directory name and store key.
func sanitizeID(id string) string {
	var b strings.Builder
	for _, r := range id {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func allowedFile(name string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(name))]
}

// safeFileName strips any path and reduces the name to a safe character set,
// keeping dots so the extension survives.
func safeFileName(name string) string {
	base := filepath.Base(name)
	var b strings.Builder
	for _, r := range base {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_' || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	out := strings.TrimLeft(b.String(), ".")
	if out == "" {
		out = "file"
	}
	return out
}

// uniqueImageName prefixes the cleaned original name with a microsecond
// timestamp so repeated uploads of the same file never collide.
func uniqueImageName(original string, t time.Time) string {
	stamp := fmt.Sprintf("%s_%06d", t.Format("20060102_150405"), t.Nanosecond()/1000)
	return stamp + "_" + safeFileName(original)
}

// splitLines breaks textarea content into lines the way it was typed: \r\n,
// \r, or \n, with no phantom empty line after a trailing newline.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func appendUpdates(path, stamp string, lines []string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintf(f, "[%s] %s\n", stamp, line); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}
