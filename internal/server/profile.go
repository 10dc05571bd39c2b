package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quoteflow-app/quoteflow/internal/common"
	"github.com/quoteflow-app/quoteflow/internal/entity"
	"github.com/quoteflow-app/quoteflow/internal/repository"
)

// ProfileHandler serves the issuer profile used on exported documents.
type ProfileHandler struct {
	profiles repository.ProfileRepository
	logger   *zap.Logger
}

func NewProfileHandler(profiles repository.ProfileRepository, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	ownerID, ok := ownerFrom(c)
	if !ok {
		common.AbortUnauthorized(c, "unauthorized")
		return
	}
	profile, err := h.profiles.GetByOwner(c.Request.Context(), ownerID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"profile": nil})
			return
		}
		common.AbortForError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

type upsertProfileRequest struct {
	BusinessName    string `json:"business_name" binding:"required"`
	Address         string `json:"address"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	DefaultCurrency string `json:"default_currency"`
}

func (h *ProfileHandler) Upsert(c *gin.Context) {
	ownerID, ok := ownerFrom(c)
	if !ok {
		common.AbortUnauthorized(c, "unauthorized")
		return
	}
	var req upsertProfileRequest
	if err := c.BindJSON(&req); err != nil {
		common.AbortBadRequest(c, "invalid request body")
		return
	}

	v := common.NewValidator()
	v.Field("business_name", req.BusinessName, common.Required, common.MaxLength(200))
	if req.DefaultCurrency != "" {
		v.Field("default_currency", req.DefaultCurrency, common.CurrencyCode)
	}
	if err := v.Error(); err != nil {
		common.AbortBadRequest(c, err.Error())
		return
	}

	profile, err := h.profiles.Upsert(c.Request.Context(), &entity.Profile{
		OwnerID:         ownerID,
		BusinessName:    req.BusinessName,
		Address:         req.Address,
		Phone:           req.Phone,
		Email:           req.Email,
		DefaultCurrency: req.DefaultCurrency,
	})
	if err != nil {
		h.logger.Error("profile upsert failed", zap.Error(err))
		common.AbortForError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// ClientsHandler lists the owner's saved clients.
type ClientsHandler struct {
	clients repository.ClientRepository
}

func NewClientsHandler(clients repository.ClientRepository) *ClientsHandler {
	return &ClientsHandler{clients: clients}
}

func (h *ClientsHandler) List(c *gin.Context) {
	ownerID, ok := ownerFrom(c)
	if !ok {
		common.AbortUnauthorized(c, "unauthorized")
		return
	}
	clients, err := h.clients.List(c.Request.Context(), ownerID)
	if err != nil {
		common.AbortForError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": clients})
}
