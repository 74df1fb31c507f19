package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"catalog_service/internal/domain"
	"catalog_service/internal/repository"
	"catalog_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testEmail    = "admin@example.com"
	testPassword = "S3cret-pass"
)

type envelope struct {
	Status    string                  `json:"Status"`
	Message   string                  `json:"Message"`
	Data      json.RawMessage         `json:"Data"`
	Errors    domain.ValidationErrors `json:"Errors"`
	Retryable bool                    `json:"retryable"`
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func seedProduct(id, name, category, price string, availability domain.Availability, featured bool) domain.Product {
	return domain.Product{
		ID:           id,
		Name:         name,
		Price:        decimal.RequireFromString(price),
		Category:     category,
		Image:        "/img/" + id + ".jpg",
		Description:  name,
		Availability: availability,
		Specs:        map[string]string{"Model": id},
		Featured:     featured,
	}
}

func testProducts() []domain.Product {
	return []domain.Product{
		seedProduct("p1", "ThinkPad T14", "Computers", "1349", domain.InStock, true),
		seedProduct("p2", "Brother HL-L2350DW", "Printers", "89.99", domain.InStock, true),
		seedProduct("p3", "Canon Pixma", "Printers", "59", domain.InStock, true),
		seedProduct("p4", "Epson EcoTank", "Printers", "499.99", domain.OutOfStock, false),
		seedProduct("p5", "Cisco Catalyst", "Networking", "1195", domain.InStock, false),
	}
}

type testServer struct {
	router *gin.Engine
	repo   *repository.MemoryCatalogRepository
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := testLogger()

	repo := repository.NewMemoryCatalogRepository()
	require.NoError(t, repo.Save(context.Background(), &domain.Snapshot{Products: testProducts()}))
	catalog := usecase.NewCatalog(repo, nil, logger)
	require.NoError(t, catalog.Load(context.Background()))

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	auth := usecase.NewAuthUseCase(usecase.AuthSettings{
		AdminEmail:        testEmail,
		AdminPasswordHash: string(hash),
		JWTSecret:         "test-secret",
		TokenTTL:          time.Hour,
	}, logger)

	router := NewRouter(RouterDeps{
		Storefront: usecase.NewStorefrontUseCase(catalog, logger),
		Products:   usecase.NewProductUseCase(catalog, logger),
		Categories: usecase.NewCategoryUseCase(catalog, logger),
		Auth:       auth,
	}, logger)

	session, err := auth.Login(testEmail, testPassword)
	require.NoError(t, err)
	return &testServer{router: router, repo: repo, token: session.Token}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func TestStorefront_ListProductsWithFilters(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/products?category=printers&min_price=0&max_price=100&availability=In%20Stock", nil, false)
	require.Equal(t, http.StatusOK, w.Code)

	var listing usecase.ProductListing
	env := decodeEnvelope(t, w, &listing)
	assert.Equal(t, "Success", env.Status)
	assert.Equal(t, "Printers", listing.Category)
	require.Len(t, listing.Products, 2)
	assert.Equal(t, "p2", listing.Products[0].ID)
	assert.Equal(t, "p3", listing.Products[1].ID)
	assert.Equal(t, 5, listing.Total)
}

func TestStorefront_PricesAreJSONNumbers(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/products/p2", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"price":89.99`)
}

func TestStorefront_RawArray(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/products?raw=1", nil, false)
	require.Equal(t, http.StatusOK, w.Code)

	var products []domain.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	assert.Len(t, products, 5)
}

func TestStorefront_SortAndBadQuery(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/products?sort=price&direction=desc", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var listing usecase.ProductListing
	decodeEnvelope(t, w, &listing)
	assert.Equal(t, "p1", listing.Products[0].ID)

	w = s.do(t, http.MethodGet, "/api/products?sort=stock", nil, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/products?min_price=abc", nil, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStorefront_ProductDetailAndFeatured(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/products/missing", nil, false)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/featured", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var section usecase.FeaturedSection
	decodeEnvelope(t, w, &section)
	assert.False(t, section.Visible, "three featured products keep the section hidden")
}

func TestAdmin_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/admin/products", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/products", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_Login(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/auth/login", map[string]string{"email": testEmail, "password": testPassword}, false)
	require.Equal(t, http.StatusOK, w.Code)
	var session domain.AuthSession
	decodeEnvelope(t, w, &session)
	assert.NotEmpty(t, session.Token)

	w = s.do(t, http.MethodPost, "/auth/login", map[string]string{"email": testEmail, "password": "nope"}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdmin_CreateValidationErrors(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/admin/products", map[string]interface{}{
		"name": "", "price": 100, "discount": 150, "category": "Printers",
		"image": "/x.jpg", "description": "d", "specs": []map[string]string{{"key": "Speed", "value": "1"}},
	}, true)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	env := decodeEnvelope(t, w, nil)
	assert.Equal(t, "Fail", env.Status)
	assert.Equal(t, domain.ValidationErrors{
		"name":     "Product name is required",
		"discount": "Discount must be less than price",
	}, env.Errors)
}

func TestAdmin_ProductLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/admin/products", map[string]interface{}{
		"name": "HP LaserJet", "price": "329", "discount": "289", "category": "Printers",
		"image": "/x.jpg", "description": "Laser", "availability": "In Stock",
		"specs": map[string]string{"Speed": "40 ppm"},
	}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created domain.Product
	decodeEnvelope(t, w, &created)
	require.NotEmpty(t, created.ID)

	w = s.do(t, http.MethodPatch, "/admin/products/"+created.ID, map[string]interface{}{"availability": "Out of Stock"}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated domain.Product
	decodeEnvelope(t, w, &updated)
	assert.Equal(t, domain.OutOfStock, updated.Availability)

	w = s.do(t, http.MethodPatch, "/admin/products/"+created.ID, map[string]interface{}{}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/admin/products/"+created.ID+"/featured", nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/featured", nil, false)
	var section usecase.FeaturedSection
	decodeEnvelope(t, w, &section)
	assert.True(t, section.Visible)
	assert.Equal(t, 4, section.Columns)

	w = s.do(t, http.MethodDelete, "/admin/products/"+created.ID, nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodDelete, "/admin/products/"+created.ID, nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdmin_SortToggle(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/admin/products/sort", map[string]string{"field": "price"}, true)
	require.Equal(t, http.StatusOK, w.Code)
	var first struct {
		Products []domain.Product `json:"products"`
		Sort     domain.SortState `json:"sort"`
	}
	decodeEnvelope(t, w, &first)
	assert.Equal(t, domain.Ascending, first.Sort.Direction)
	assert.Equal(t, "p3", first.Products[0].ID)

	w = s.do(t, http.MethodPost, "/admin/products/sort", map[string]string{"field": "price"}, true)
	var second struct {
		Sort domain.SortState `json:"sort"`
	}
	decodeEnvelope(t, w, &second)
	assert.Equal(t, domain.Descending, second.Sort.Direction)

	w = s.do(t, http.MethodPost, "/admin/products/sort", map[string]string{"field": "weight"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdmin_FailedSaveReturns500AndKeepsState(t *testing.T) {
	s := newTestServer(t)
	s.repo.FailSave = assert.AnError

	w := s.do(t, http.MethodDelete, "/admin/products/p1", nil, true)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = s.do(t, http.MethodGet, "/api/products/p1", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdmin_CategoriesAndStats(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/admin/categories", map[string]string{"name": "Storage"}, true)
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodPost, "/admin/categories", map[string]string{"name": "storage"}, true)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPatch, "/admin/categories/Printers", map[string]string{"label": "Printers & Scanners"}, true)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/admin/categories", nil, true)
	var categories []domain.Category
	decodeEnvelope(t, w, &categories)
	require.Len(t, categories, 6)
	assert.Equal(t, "Printers & Scanners", categories[1].DisplayName())

	w = s.do(t, http.MethodGet, "/admin/stats", nil, true)
	var stats usecase.CatalogStats
	decodeEnvelope(t, w, &stats)
	assert.Equal(t, usecase.CatalogStats{Total: 5, InStock: 4, OutOfStock: 1, OnSale: 0, Featured: 3}, stats)
}

func TestAdmin_ImportCSV(t *testing.T) {
	s := newTestServer(t)

	csv := "name,price,discount,category,image,description,availability,specs\n" +
		"Netgear GS308,24.99,,Networking,/img/gs308.jpg,8-port switch,In Stock,Ports=8\n" +
		",1,,,,,,\n"
	req := httptest.NewRequest(http.MethodPost, "/admin/products/import", strings.NewReader(csv))
	req.Header.Set("Content-Type", "text/csv")
	req.Header.Set("Authorization", "Bearer "+s.token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var report usecase.ImportReport
	decodeEnvelope(t, w, &report)
	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 1, report.Failed)

	w = s.do(t, http.MethodGet, "/admin/products/export", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Netgear GS308")
}

func TestHealthAndIndex(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/products")
}

func TestStorefrontOnlyRouterHasNoAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := testLogger()
	repo := repository.NewMemoryCatalogRepository()
	catalog := usecase.NewCatalog(repo, testProducts(), logger)
	require.NoError(t, catalog.Load(context.Background()))

	router := NewRouter(RouterDeps{Storefront: usecase.NewStorefrontUseCase(catalog, logger)}, logger)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/products", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMapErrorToStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ValidationErrors{"name": "x"}, http.StatusUnprocessableEntity},
		{domain.ErrProductNotFound, http.StatusNotFound},
		{domain.ErrFeaturedLimit, http.StatusConflict},
		{domain.ErrCategoryExists, http.StatusConflict},
		{domain.ErrInvalidSortField, http.StatusBadRequest},
		{domain.ErrCatalogUnavailable, http.StatusServiceUnavailable},
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, mapErrorToStatus(tc.err), tc.err.Error())
	}
}

type unavailableSource struct{}

func (unavailableSource) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return nil, domain.ErrCatalogUnavailable
}

func TestStorefront_UnavailableBackendIsRetryable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := testLogger()
	router := NewRouter(RouterDeps{Storefront: usecase.NewStorefrontUseCase(unavailableSource{}, logger)}, logger)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	env := decodeEnvelope(t, w, nil)
	assert.True(t, env.Retryable)
	assert.Equal(t, "Fail", env.Status)
}

const importBody = "name,price,discount,category,image,description,availability,specs\n" +
	"Netgear GS308,24.99,,Networking,/img/gs308.jpg,8-port switch,In Stock,Ports=8\n"

func (s *testServer) postImport(t *testing.T, contentType string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/admin/products/import", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+s.token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestAdmin_ImportCSVSentAsFormEncodedBody(t *testing.T) {
	s := newTestServer(t)

	w := s.postImport(t, "application/x-www-form-urlencoded", strings.NewReader(importBody))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var report usecase.ImportReport
	decodeEnvelope(t, w, &report)
	assert.Equal(t, 1, report.Imported)
}

func TestAdmin_ImportCSVMultipart(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", "products.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(importBody))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	w := s.postImport(t, form.FormDataContentType(), &buf)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	buf.Reset()
	form = multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("note", "no file"))
	require.NoError(t, form.Close())

	w = s.postImport(t, form.FormDataContentType(), &buf)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStorefront_CategoriesShowAdminLabels(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPatch, "/admin/categories/Printers", map[string]string{"label": "Printers & Scanners"}, true)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/categories", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var categories []domain.Category
	decodeEnvelope(t, w, &categories)
	require.Len(t, categories, 5)
	assert.Equal(t, "Printers & Scanners", categories[1].Label)
}
