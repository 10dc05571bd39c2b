package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
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
	"github.com/quoteflow-app/quoteflow/internal/chat"
	"github.com/quoteflow-app/quoteflow/internal/extraction"
	"github.com/quoteflow-app/quoteflow/internal/llm"
)

type stubExtractor struct {
	res *extraction.VisionResult
}

func (e *stubExtractor) ExtractDocument(context.Context, llm.ExtractRequest) (*extraction.VisionResult, []byte, error) {
	return e.res, nil, nil
}

func chatTestRouter(ext llm.DocumentExtractor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := chat.NewService(nil, chat.Config{}, ext)
	h := NewChatHandler(svc, nil, zap.NewNop())

	r := gin.New()
	// Stand-in for AuthMiddleware so handler tests don't mint tokens.
	r.Use(func(c *gin.Context) {
		c.Set(ctxOwnerID, uuid.New())
	})
	r.POST("/chat/turn", h.HandleTurn)
	r.POST("/chat/upload", h.HandleUpload)
	r.POST("/chat/refine", h.HandleRefine)
	return r
}

func TestChatTurnEndpoint(t *testing.T) {
	r := chatTestRouter(&stubExtractor{})

	body := `{"messages": [{"role": "user", "content": "My business is Studio Nine. Quote for Acme Ltd, in USD.\n2 x Logo design at $300"}]}`
	req := httptest.NewRequest(http.MethodPost, "/chat/turn", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var res chat.TurnResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, constants.DocTypeQuote, res.DocumentType)
	assert.True(t, res.ReadyToCreate)
	assert.Equal(t, "conversation", res.Source)
}

func TestChatTurnEndpointRejectsEmpty(t *testing.T) {
	r := chatTestRouter(&stubExtractor{})

	for _, body := range []string{`{}`, `{"messages": []}`, `not json`} {
		req := httptest.NewRequest(http.MethodPost, "/chat/turn", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
	}
}

func TestChatUploadEndpoint(t *testing.T) {
	amount := 500.0
	r := chatTestRouter(&stubExtractor{res: &extraction.VisionResult{
		Success:      true,
		DocumentType: constants.DocTypeInvoice,
		Confidence:   0.9,
		Data: &extraction.DocumentData{
			Client:   &extraction.Party{Name: "Acme Ltd"},
			Currency: "USD",
			DueDate:  "2026-09-15",
			Items:    []extraction.LineItem{{Description: "Design", Amount: &amount}},
		},
	}})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "invoice.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte{0xFF, 0xD8, 0xFF})
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("documentType", "invoice"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/chat/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var res chat.TurnResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, constants.DocTypeInvoice, res.DocumentType)
	assert.Equal(t, "vision", res.Source)
}

func TestChatUploadEndpointRequiresFile(t *testing.T) {
	r := chatTestRouter(&stubExtractor{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("documentType", "invoice"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/chat/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatRefineEndpoint(t *testing.T) {
	r := chatTestRouter(&stubExtractor{})

	body := `{
		"documentType": "quote",
		"prior": {
			"client": {"name": "Acme Ltd"},
			"items": [{"description": "Design", "quantity": 2, "unitPrice": 300}]
		},
		"update": {"currency": "USD"}
	}`
	req := httptest.NewRequest(http.MethodPost, "/chat/refine", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var res chat.TurnResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.ReadyToCreate)
	require.NotNil(t, res.Data)
	assert.Equal(t, "USD", res.Data.Currency)
	require.NotNil(t, res.Data.Total)
	assert.InDelta(t, 600, *res.Data.Total, 1e-9)
}

func TestChatRefineEndpointRejectsBadType(t *testing.T) {
	r := chatTestRouter(&stubExtractor{})

	body := `{"documentType": "receipt", "update": {"currency": "USD"}}`
	req := httptest.NewRequest(http.MethodPost, "/chat/refine", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
