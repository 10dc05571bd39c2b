package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quoteflow-app/quoteflow/constants"
	"github.com/quoteflow-app/quoteflow/internal/common"
	"github.com/quoteflow-app/quoteflow/internal/entity"
	"github.com/quoteflow-app/quoteflow/internal/repository"
)

type fakeDocumentRepo struct {
	doc        *entity.Document
	lastStatus constants.DocumentStatus
	deleted    uuid.UUID
}

func (f *fakeDocumentRepo) CreateFromExtraction(_ context.Context, req *repository.CreateDocumentRequest) (*entity.Document, error) {
	return &entity.Document{ID: uuid.New(), OwnerID: req.OwnerID, Type: req.Type, Number: req.Number}, nil
}

func (f *fakeDocumentRepo) GetByID(_ context.Context, _, id uuid.UUID) (*entity.Document, error) {
	if f.doc == nil || f.doc.ID != id {
		return nil, common.ErrNotFound
	}
	return f.doc, nil
}

func (f *fakeDocumentRepo) List(context.Context, uuid.UUID, repository.ListDocumentsFilter) ([]*entity.Document, error) {
	return []*entity.Document{}, nil
}

func (f *fakeDocumentRepo) UpdateStatus(_ context.Context, _, _ uuid.UUID, status constants.DocumentStatus) error {
	f.lastStatus = status
	return nil
}

func (f *fakeDocumentRepo) Delete(_ context.Context, _, id uuid.UUID) error {
	f.deleted = id
	return nil
}

func documentsTestRouter(docs repository.DocumentRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewDocumentsHandler(docs, nil, nil, nil, zap.NewNop())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(ctxOwnerID, uuid.New())
	})
	r.GET("/documents/:id", h.Get)
	r.PATCH("/documents/:id/status", h.UpdateStatus)
	r.DELETE("/documents/:id", h.Delete)
	return r
}

func TestDocumentEndpointsRejectBadID(t *testing.T) {
	r := documentsTestRouter(&fakeDocumentRepo{})

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/documents/not-a-uuid"},
		{http.MethodPatch, "/documents/42/status"},
		{http.MethodDelete, "/documents/deadbeef"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{"status": "SENT"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestGetDocument(t *testing.T) {
	doc := &entity.Document{ID: uuid.New(), Type: constants.DocTypeInvoice, Number: "INV-1"}
	r := documentsTestRouter(&fakeDocumentRepo{doc: doc})

	req := httptest.NewRequest(http.MethodGet, "/documents/"+doc.ID.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "INV-1")
}

func TestGetDocumentNotFound(t *testing.T) {
	r := documentsTestRouter(&fakeDocumentRepo{})

	req := httptest.NewRequest(http.MethodGet, "/documents/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateDocumentStatus(t *testing.T) {
	repo := &fakeDocumentRepo{}
	r := documentsTestRouter(repo)

	req := httptest.NewRequest(http.MethodPatch, "/documents/"+uuid.NewString()+"/status", strings.NewReader(`{"status": "SENT"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, constants.StatusSent, repo.lastStatus)
}

func TestDeleteDocument(t *testing.T) {
	repo := &fakeDocumentRepo{}
	r := documentsTestRouter(repo)

	id := uuid.New()
	req := httptest.NewRequest(http.MethodDelete, "/documents/"+id.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, id, repo.deleted)
}
