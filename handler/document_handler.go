package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sinantan/document-chat-assistant/middleware"
	"github.com/sinantan/document-chat-assistant/service"
	"github.com/sinantan/document-chat-assistant/types"
)

type DocumentHandler struct {
	documentService  *service.DocumentService
	webSocketService *service.WebSocketService
}

func NewDocumentHandler(documentService *service.DocumentService, webSocketService *service.WebSocketService) *DocumentHandler {
	return &DocumentHandler{
		documentService:  documentService,
		webSocketService: webSocketService,
	}
}

func (h *DocumentHandler) HandleUpload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondError(c, types.NewValidationError("A file field is required"))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		respondError(c, types.NewFileProcessingError("Failed to read uploaded file", err))
		return
	}

	doc, err := h.documentService.Upload(
		c.Request.Context(),
		middleware.UserID(c),
		content,
		header.Filename,
		header.Header.Get("Content-Type"),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusAccepted, doc)
}

func (h *DocumentHandler) HandleList(c *gin.Context) {
	skip, limit := pagination(c)
	docs, err := h.documentService.ListDocuments(c.Request.Context(), middleware.UserID(c), skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, docs)
}

func (h *DocumentHandler) HandleGet(c *gin.Context) {
	doc, err := h.documentService.GetDocument(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, doc)
}

func (h *DocumentHandler) HandleChunks(c *gin.Context) {
	chunks, err := h.documentService.GetDocumentChunks(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, chunks)
}

func (h *DocumentHandler) HandleContent(c *gin.Context) {
	content, mimeType, err := h.documentService.GetDocumentContent(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, mimeType, content)
}

func (h *DocumentHandler) HandleDelete(c *gin.Context) {
	if err := h.documentService.Delete(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"deleted": true})
}

// HandleStatusWS upgrades to a websocket and streams processing status
// until the document settles.
func (h *DocumentHandler) HandleStatusWS(c *gin.Context) {
	h.webSocketService.WatchDocument(c.Writer, c.Request, c.Param("id"), middleware.UserID(c))
}

func pagination(c *gin.Context) (skip, limit int64) {
	skip, _ = strconv.ParseInt(c.DefaultQuery("skip", "0"), 10, 64)
	limit, _ = strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return skip, limit
}
