package server

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jask/fieldpost/internal/store"
)

// Handler wires the intake routes to the on-disk call layout and the call
// store. The disk layout is the contract the dashboards read; the store
// feeds the query API.
type Handler struct {
	dataDir   string
	maxUpload int64

	calls   *store.CallRepo
	updates *store.UpdateRepo
	images  *store.ImageRepo
}

// NewHandler constructs a Handler instance.
func NewHandler(dataDir string, maxUpload int64, db *sql.DB) *Handler {
	return &Handler{
		dataDir:   dataDir,
		maxUpload: maxUpload,
		calls:     store.NewCallRepo(db),
		updates:   store.NewUpdateRepo(db),
		images:    store.NewImageRepo(db),
	}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.index)
	router.GET("/healthz", h.healthz)
	router.POST("/upload", h.upload)

	api := router.Group("/api")
	api.GET("/officers", h.listOfficers)
	officer := api.Group("/officers/:officer")
	officer.GET("/calls", h.listCalls)
	officer.GET("/calls/:call/updates", h.listUpdates)
	officer.GET("/calls/:call/images", h.listImages)
	officer.GET("/calls/:call/images/:name", h.serveImage)
}

func (h *Handler) index(c *gin.Context) {
	c.String(http.StatusOK, "Dispatch Backend Server v2 is running.")
}

func (h *Handler) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
