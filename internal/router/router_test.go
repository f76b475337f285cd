package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"productlist/internal/handler"
	"productlist/internal/middleware"
	"productlist/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProductService struct {
	mock.Mock
}

func (m *mockProductService) List(ctx context.Context, params model.ListParams) ([]model.Product, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *mockProductService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *mockProductService) Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *mockProductService) Delete(ctx context.Context, id string) (*model.DeleteConfirmation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DeleteConfirmation), args.Error(1)
}

const productID = "5f2b6c1e9d3a4b0012345678"

func newTestRouter(svc *mockProductService, apiKey string) http.Handler {
	logger := zerolog.Nop()
	return New(
		handler.NewProductHandler(svc, logger),
		handler.NewHealthHandler(nil, logger),
		apiKey,
		logger,
	)
}

func TestRouter_Routes(t *testing.T) {
	svc := new(mockProductService)
	svc.On("List", mock.Anything, mock.Anything).Return([]model.Product{{ID: productID}}, nil)
	svc.On("GetByID", mock.Anything, productID).Return(&model.Product{ID: productID}, nil)
	svc.On("Create", mock.Anything, mock.Anything).Return(&model.Product{ID: productID}, nil)
	svc.On("Delete", mock.Anything, productID).Return(&model.DeleteConfirmation{ID: productID}, nil)

	router := newTestRouter(svc, "")

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
	}{
		{name: "Health", method: http.MethodGet, path: "/health", expectedStatus: http.StatusOK},
		{name: "List", method: http.MethodGet, path: "/products", expectedStatus: http.StatusOK},
		{name: "List with trailing slash", method: http.MethodGet, path: "/products/", expectedStatus: http.StatusOK},
		{name: "Get one", method: http.MethodGet, path: "/products/" + productID, expectedStatus: http.StatusOK},
		{name: "Create", method: http.MethodPost, path: "/products", body: `{}`, expectedStatus: http.StatusOK},
		{name: "Delete", method: http.MethodDelete, path: "/products/" + productID, expectedStatus: http.StatusOK},
		{name: "Update is not supported", method: http.MethodPut, path: "/products/" + productID, expectedStatus: http.StatusMethodNotAllowed},
		{name: "Unknown path", method: http.MethodGet, path: "/orders", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestRouter_APIKeyProtectsMutations(t *testing.T) {
	svc := new(mockProductService)
	svc.On("List", mock.Anything, mock.Anything).Return([]model.Product{{ID: productID}}, nil)
	svc.On("Delete", mock.Anything, productID).Return(&model.DeleteConfirmation{ID: productID}, nil)

	router := newTestRouter(svc, "secret")

	tests := []struct {
		name           string
		method         string
		path           string
		apiKey         string
		expectedStatus int
	}{
		{name: "List without key", method: http.MethodGet, path: "/products", expectedStatus: http.StatusOK},
		{name: "Health without key", method: http.MethodGet, path: "/health", expectedStatus: http.StatusOK},
		{name: "Delete without key", method: http.MethodDelete, path: "/products/" + productID, expectedStatus: http.StatusUnauthorized},
		{name: "Create with wrong key", method: http.MethodPost, path: "/products", apiKey: "nope", expectedStatus: http.StatusUnauthorized},
		{name: "Delete with key", method: http.MethodDelete, path: "/products/" + productID, apiKey: "secret", expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(`{}`))
			if tt.apiKey != "" {
				req.Header.Set(middleware.APIKeyHeader, tt.apiKey)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}

	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter(new(mockProductService), "secret")

	req := httptest.NewRequest(http.MethodOptions, "/products", nil)
	req.Header.Set("Origin", "http://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestRouter_RecoversFromPanics(t *testing.T) {
	svc := new(mockProductService)
	svc.On("GetByID", mock.Anything, productID).Run(func(args mock.Arguments) {
		panic("unexpected")
	})

	router := newTestRouter(svc, "")

	req := httptest.NewRequest(http.MethodGet, "/products/"+productID, nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), model.ErrCodeInternalError)
}

func TestRouter_LogsRecoveredPanics(t *testing.T) {
	svc := new(mockProductService)
	svc.On("GetByID", mock.Anything, productID).Run(func(args mock.Arguments) {
		panic("unexpected")
	})

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	router := New(handler.NewProductHandler(svc, logger), handler.NewHealthHandler(nil, logger), "", logger)

	req := httptest.NewRequest(http.MethodGet, "/products/"+productID, nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var accessLogged bool
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(line, &entry))
		if entry["message"] == "http request" {
			accessLogged = true
			assert.Equal(t, float64(http.StatusInternalServerError), entry["status"])
			assert.Equal(t, "/products/"+productID, entry["path"])
		}
	}
	assert.True(t, accessLogged, "expected an access log entry for the recovered request")
}
