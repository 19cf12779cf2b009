package documentsapi

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"reluctant-seller-api/internal/app/http/middleware"
	"reluctant-seller-api/internal/store"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	store store.Store
}

func NewHandler(st store.Store) *Handler {
	return &Handler{store: st}
}

type documentDTO struct {
	ID       string `json:"id"`
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	MimeType string `json:"mimeType"`
}

// List returns the gated catalog. The playbook row is lazily created on
// first access; the slug's unique index keeps the bootstrap idempotent.
func (h *Handler) List(c *gin.Context) {
	if _, err := h.store.EnsurePlaybookDocument(c.Request.Context()); err != nil {
		log.Println("Document bootstrap error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	docs, err := h.store.ListActiveDocuments(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	out := make([]documentDTO, 0, len(docs))
	for _, d := range docs {
		out = append(out, documentDTO{ID: d.ID, Slug: d.Slug, Title: d.Title, MimeType: d.MimeType})
	}
	c.JSON(http.StatusOK, gin.H{"documents": out})
}

// Get streams the document bytes as an attachment and appends an access-log
// row. The entitlement middleware has already vetted the caller.
func (h *Handler) Get(c *gin.Context) {
	if _, err := h.store.EnsurePlaybookDocument(c.Request.Context()); err != nil {
		log.Println("Document bootstrap error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	doc, err := h.store.FindActiveDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if doc == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Document not found"})
		return
	}

	data, err := os.ReadFile(doc.FilePath)
	if err != nil {
		log.Println("Document read error:", err)
		c.JSON(http.StatusForbidden, gin.H{"error": "Document unavailable"})
		return
	}

	userID := c.GetString(middleware.CtxUserID)
	if err := h.store.LogDocumentAccess(c.Request.Context(), userID, doc.ID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		log.Println("Access log error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filepath.Base(doc.FilePath)+`"`)
	c.Header("Cache-Control", "private, no-store")
	c.Data(http.StatusOK, doc.MimeType, data)
}
