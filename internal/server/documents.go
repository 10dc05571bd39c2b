package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quoteflow-app/quoteflow/constants"
	"github.com/quoteflow-app/quoteflow/internal/common"
	"github.com/quoteflow-app/quoteflow/internal/entity"
	"github.com/quoteflow-app/quoteflow/internal/export"
	"github.com/quoteflow-app/quoteflow/internal/extraction"
	"github.com/quoteflow-app/quoteflow/internal/repository"
	"github.com/quoteflow-app/quoteflow/internal/validation"
)

// DocumentsHandler covers document CRUD and export endpoints.
type DocumentsHandler struct {
	docs      repository.DocumentRepository
	clients   repository.ClientRepository
	profiles  repository.ProfileRepository
	exports   *export.Service
	validator *validation.Validator
	logger    *zap.Logger
}

func NewDocumentsHandler(
	docs repository.DocumentRepository,
	clients repository.ClientRepository,
	profiles repository.ProfileRepository,
	exports *export.Service,
	logger *zap.Logger,
) *DocumentsHandler {
	return &DocumentsHandler{
		docs:      docs,
		clients:   clients,
		profiles:  profiles,
		exports:   exports,
		validator: validation.NewValidator(nil),
		logger:    logger,
	}
}

type createDocumentRequest struct {
	Type   string                   `json:"type" binding:"required"`
	Number string                   `json:"number"`
	Data   *extraction.DocumentData `json:"data" binding:"required"`
}

// Create persists an extraction as a draft quote or invoice. The record must
// pass required-field validation; the transient extraction state is the
// caller's to discard afterwards.
func (h *DocumentsHandler) Create(c *gin.Context) {
	ownerID, ok := ownerFrom(c)
	if !ok {
		common.AbortUnauthorized(c, "unauthorized")
		return
	}

	var req createDocumentRequest
	if err := c.BindJSON(&req); err != nil {
		common.AbortBadRequest(c, "invalid request body")
		return
	}
	docType, ok := constants.Canonicalize(req.Type)
	if !ok || !docType.Creatable() {
		common.AbortBadRequest(c, "type must be quote or invoice")
		return
	}

	vres := h.validator.Validate(req.Data, docType)
	if !vres.IsComplete {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      "document is incomplete",
			"validation": vres,
		})
		return
	}

	// Keep the client book up to date as a side effect of creation.
	var clientID *uuid.UUID
	if req.Data.Client != nil && req.Data.Client.Name != "" {
		cl, err := h.clients.UpsertByName(c.Request.Context(), ownerID, &entity.Client{
			Name:    req.Data.Client.Name,
			Address: req.Data.Client.Address,
			Phone:   req.Data.Client.Phone,
			Email:   req.Data.Client.Email,
		})
		if err != nil {
			h.logger.Warn("client upsert failed", zap.Error(err))
		} else {
			clientID = &cl.ID
		}
	}

	number := req.Number
	if number == "" {
		number = generateNumber(docType)
	}

	doc, err := h.docs.CreateFromExtraction(c.Request.Context(), &repository.CreateDocumentRequest{
		OwnerID:  ownerID,
		ClientID: clientID,
		Type:     docType,
		Number:   number,
		Data:     req.Data,
	})
	if err != nil {
		h.logger.Error("create document failed", zap.Error(err))
		common.AbortForError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *DocumentsHandler) List(c *gin.Context) {
	ownerID, ok := ownerFrom(c)
	if !ok {
		common.AbortUnauthorized(c, "unauthorized")
		return
	}

	filter := repository.ListDocumentsFilter{}
	if t := c.Query("type"); t != "" {
		docType, ok := constants.Canonicalize(t)
		if !ok {
			common.AbortBadRequest(c, "invalid type filter")
			return
		}
		filter.Type = docType
	}
	if s := c.Query("status"); s != "" {
		status := constants.DocumentStatus(s)
		if !status.Valid() {
			common.AbortBadRequest(c, "invalid status filter")
			return
		}
		filter.Status = status
	}
	var err error
	if filter.FromDate, err = parseQueryDate(c.Query("from")); err != nil {
		common.AbortBadRequest(c, err.Error())
		return
	}
	if filter.ToDate, err = parseQueryDate(c.Query("to")); err != nil {
		common.AbortBadRequest(c, err.Error())
		return
	}

	docs, err := h.docs.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.logger.Error("list documents failed", zap.Error(err))
		common.AbortForError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

func (h *DocumentsHandler) Get(c *gin.Context) {
	ownerID, doc, ok := h.load(c)
	if !ok {
		return
	}
	_ = ownerID
	c.JSON(http.StatusOK, doc)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *DocumentsHandler) UpdateStatus(c *gin.Context) {
	ownerID, ok := ownerFrom(c)
	if !ok {
		common.AbortUnauthorized(c, "unauthorized")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := c.BindJSON(&req); err != nil {
		common.AbortBadRequest(c, "invalid request body")
		return
	}
	status := constants.DocumentStatus(req.Status)
	if !status.Valid() {
		common.AbortBadRequest(c, "invalid status")
		return
	}

	if err := h.docs.UpdateStatus(c.Request.Context(), ownerID, id, status); err != nil {
		common.AbortForError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DocumentsHandler) Delete(c *gin.Context) {
	ownerID, ok := ownerFrom(c)
	if !ok {
		common.AbortUnauthorized(c, "unauthorized")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.docs.Delete(c.Request.Context(), ownerID, id); err != nil {
		common.AbortForError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Export renders one document as PDF or JSON.
func (h *DocumentsHandler) Export(c *gin.Context) {
	ownerID, doc, ok := h.load(c)
	if !ok {
		return
	}

	profile, err := h.profiles.GetByOwner(c.Request.Context(), ownerID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		common.AbortForError(c, err)
		return
	}

	switch c.DefaultQuery("format", "pdf") {
	case "pdf":
		data, err := export.DocumentPDF(doc, profile)
		if err != nil {
			h.logger.Error("pdf render failed", zap.Error(err))
			common.AbortInternal(c, "export failed")
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", doc.Number))
		c.Data(http.StatusOK, "application/pdf", data)
	case "json":
		data, err := export.DocumentJSON(doc, profile)
		if err != nil {
			common.AbortInternal(c, "export failed")
			return
		}
		c.Data(http.StatusOK, "application/json", data)
	default:
		common.AbortBadRequest(c, "format must be pdf or json")
	}
}

// ExportWorkbook renders a filtered listing as an XLSX download.
func (h *DocumentsHandler) ExportWorkbook(c *gin.Context) {
	ownerID, ok := ownerFrom(c)
	if !ok {
		common.AbortUnauthorized(c, "unauthorized")
		return
	}

	var docType constants.DocumentType
	if t := c.Query("type"); t != "" {
		dt, ok := constants.Canonicalize(t)
		if !ok {
			common.AbortBadRequest(c, "invalid type filter")
			return
		}
		docType = dt
	}
	from, err := parseQueryDate(c.Query("from"))
	if err != nil {
		common.AbortBadRequest(c, err.Error())
		return
	}
	to, err := parseQueryDate(c.Query("to"))
	if err != nil {
		common.AbortBadRequest(c, err.Error())
		return
	}

	data, err := h.exports.DocumentsXLSX(c.Request.Context(), ownerID, docType, from, to)
	if err != nil {
		h.logger.Error("xlsx export failed", zap.Error(err))
		common.AbortInternal(c, "export failed")
		return
	}
	c.Header("Content-Disposition", "attachment; filename=documents.xlsx")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *DocumentsHandler) load(c *gin.Context) (uuid.UUID, *entity.Document, bool) {
	ownerID, ok := ownerFrom(c)
	if !ok {
		common.AbortUnauthorized(c, "unauthorized")
		return uuid.Nil, nil, false
	}
	id, ok := pathID(c)
	if !ok {
		return uuid.Nil, nil, false
	}
	doc, err := h.docs.GetByID(c.Request.Context(), ownerID, id)
	if err != nil {
		common.AbortForError(c, err)
		return uuid.Nil, nil, false
	}
	return ownerID, doc, true
}

// pathID validates and parses the :id path parameter.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.Param("id")
	if err := common.NewValidator().Field("id", raw, common.Required, common.UUID).Error(); err != nil {
		common.AbortBadRequest(c, "invalid document id")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		common.AbortBadRequest(c, "invalid document id")
		return uuid.Nil, false
	}
	return id, true
}

func parseQueryDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return &t, nil
}

func generateNumber(docType constants.DocumentType) string {
	prefix := "INV"
	if docType == constants.DocTypeQuote {
		prefix = "QUO"
	}
	return fmt.Sprintf("%s-%s", prefix, time.Now().UTC().Format("20060102-150405"))
}
