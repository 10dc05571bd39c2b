package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quoteflow-app/quoteflow/constants"
	"github.com/quoteflow-app/quoteflow/internal/chat"
	"github.com/quoteflow-app/quoteflow/internal/common"
	"github.com/quoteflow-app/quoteflow/internal/convparse"
	"github.com/quoteflow-app/quoteflow/internal/extraction"
	"github.com/quoteflow-app/quoteflow/internal/storage"
)

// genericFailure is the only raw-failure text a user ever sees; everything
// inside the pipeline recovers into conversational replies.
const genericFailure = "Sorry, I encountered an error. Please try again."

const maxUploadBytes = 10 << 20

// ChatHandler exposes the extraction pipeline over HTTP.
type ChatHandler struct {
	svc     *chat.Service
	uploads *storage.Uploads // optional; nil disables upload persistence
	logger  *zap.Logger
}

func NewChatHandler(svc *chat.Service, uploads *storage.Uploads, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, uploads: uploads, logger: logger}
}

type turnRequest struct {
	Messages []convparse.Turn `json:"messages" binding:"required"`
}

// HandleTurn runs one text conversation turn through the pipeline.
func (h *ChatHandler) HandleTurn(c *gin.Context) {
	var req turnRequest
	if err := c.BindJSON(&req); err != nil {
		common.AbortBadRequest(c, "invalid request body")
		return
	}
	if len(req.Messages) == 0 {
		common.AbortBadRequest(c, "messages must not be empty")
		return
	}

	res := h.svc.HandleTurn(c.Request.Context(), req.Messages)
	if res == nil {
		h.logger.Error("chat turn produced no result")
		c.JSON(http.StatusOK, gin.H{"reply": genericFailure})
		return
	}
	c.JSON(http.StatusOK, res)
}

// HandleUpload extracts a document from an uploaded image via the vision
// adapter. The original file is persisted when upload storage is configured.
func (h *ChatHandler) HandleUpload(c *gin.Context) {
	ownerID, ok := ownerFrom(c)
	if !ok {
		common.AbortUnauthorized(c, "unauthorized")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		common.AbortBadRequest(c, "file is required")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		common.AbortBadRequest(c, "file too large")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		common.AbortBadRequest(c, "could not read file")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		common.AbortBadRequest(c, "could not read file")
		return
	}
	mime := fileHeader.Header.Get("Content-Type")

	hint, _ := constants.Canonicalize(c.PostForm("documentType"))

	if h.uploads != nil {
		if _, _, err := h.uploads.Put(c.Request.Context(), ownerID, data, mime); err != nil {
			// Extraction still proceeds; losing the stored original is not fatal.
			h.logger.Warn("upload persistence failed", zap.Error(err))
		}
	}

	res := h.svc.HandleUpload(c.Request.Context(), data, mime, hint)
	if res == nil {
		c.JSON(http.StatusOK, gin.H{"reply": genericFailure})
		return
	}
	c.JSON(http.StatusOK, res)
}

type refineRequest struct {
	DocumentType string                    `json:"documentType" binding:"required"`
	Prior        *extraction.DocumentData  `json:"prior"`
	Update       *extraction.DocumentData  `json:"update" binding:"required"`
}

// HandleRefine merges user corrections into a prior extraction and
// re-validates.
func (h *ChatHandler) HandleRefine(c *gin.Context) {
	var req refineRequest
	if err := c.BindJSON(&req); err != nil {
		common.AbortBadRequest(c, "invalid request body")
		return
	}
	docType, ok := constants.Canonicalize(req.DocumentType)
	if !ok || !docType.Creatable() {
		common.AbortBadRequest(c, "documentType must be quote or invoice")
		return
	}

	res := h.svc.Refine(req.Prior, req.Update, docType)
	c.JSON(http.StatusOK, res)
}
