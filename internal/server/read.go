package server

import (
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listOfficers(c *gin.Context) {
	officers, err := h.calls.Officers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]gin.H, 0, len(officers))
	for _, o := range officers {
		out = append(out, gin.H{
			"id":         o.ID,
			"call_count": o.CallCount,
			"last_seen":  o.LastSeen,
		})
	}
	c.JSON(http.StatusOK, gin.H{"officers": out})
}

func (h *Handler) listCalls(c *gin.Context) {
	officerID := sanitizeID(c.Param("officer"))
	calls, err := h.calls.ListByOfficer(c.Request.Context(), officerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]gin.H, 0, len(calls))
	for _, call := range calls {
		out = append(out, gin.H{
			"id":         call.ID,
			"created_at": call.CreatedAt,
			"updated_at": call.UpdatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"officer_id": officerID, "calls": out})
}

// callParams resolves and checks the officer/call pair shared by the
// per-call read routes.
func (h *Handler) callParams(c *gin.Context) (officerID, callID string, ok bool) {
	officerID = sanitizeID(c.Param("officer"))
	callID = sanitizeID(c.Param("call"))
	call, err := h.calls.Get(c.Request.Context(), officerID, callID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return "", "", false
	}
	if call == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "call not found"})
		return "", "", false
	}
	return officerID, callID, true
}

func (h *Handler) listUpdates(c *gin.Context) {
	officerID, callID, ok := h.callParams(c)
	if !ok {
		return
	}
	after, err := strconv.ParseInt(c.DefaultQuery("after", "0"), 10, 64)
	if err != nil || after < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid after cursor"})
		return
	}
	ups, err := h.updates.ListAfter(c.Request.Context(), officerID, callID, after)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	last := after
	out := make([]gin.H, 0, len(ups))
	for _, u := range ups {
		out = append(out, gin.H{
			"id":         u.ID,
			"body":       u.Body,
			"created_at": u.CreatedAt,
		})
		last = u.ID
	}
	c.JSON(http.StatusOK, gin.H{"call_id": callID, "updates": out, "last_id": last})
}

func (h *Handler) listImages(c *gin.Context) {
	officerID, callID, ok := h.callParams(c)
	if !ok {
		return
	}
	imgs, err := h.images.ListByCall(c.Request.Context(), officerID, callID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]gin.H, 0, len(imgs))
	for _, img := range imgs {
		out = append(out, gin.H{
			"id":            img.ID,
			"file_name":     img.FileName,
			"original_name": img.OriginalName,
			"size_bytes":    img.SizeBytes,
			"created_at":    img.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"call_id": callID, "images": out})
}

// serveImage streams a stored image back. Only names recorded for the call
// are served, so the request can never reach outside the image directory.
func (h *Handler) serveImage(c *gin.Context) {
	officerID, callID, ok := h.callParams(c)
	if !ok {
		return
	}
	name := c.Param("name")
	imgs, err := h.images.ListByCall(c.Request.Context(), officerID, callID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	for _, img := range imgs {
		if img.FileName == name {
			c.File(filepath.Join(h.dataDir, officerID, callID, "images", img.FileName))
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
}
