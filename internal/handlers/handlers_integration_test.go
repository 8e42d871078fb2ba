package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"catalog/internal/handlers"
	"catalog/internal/middleware"
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp boots a Fiber app over a fresh in-memory SQLite database with all
// handlers, services, and the JWT middleware wired the way main does it.
func setupApp() (*fiber.App, error) {
	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to in-memory database: %w", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.ProductImage{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	productRepo := repositories.NewGORMProductRepository(db)
	imageRepo := repositories.NewGORMImageRepository()
	userRepo := repositories.NewGORMUserRepository(db)

	catalogService := services.NewCatalogService(db, productRepo, imageRepo, nil)
	authService := services.NewAuthService(userRepo, jwtSecret)

	productHandler := handlers.NewProductHandler(catalogService)
	authHandler := handlers.NewAuthHandler(authService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(authService, userRepo))
	productHandler.RegisterRoutes(protected)

	return app, nil
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// registerAndLogin creates a user over HTTP and returns a bearer token.
func registerAndLogin(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"email":     email,
		"full_name": "Integration Tester",
		"password":  "password123",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	body, _ = json.Marshal(map[string]string{
		"email":    email,
		"password": "password123",
	})
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResp map[string]string
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&loginResp))
	resp.Body.Close()
	assert.NotEmpty(t, loginResp["token"])
	return loginResp["token"]
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload interface{}) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if payload != nil {
		body, _ := json.Marshal(payload)
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

func TestAuthRegisterAndLogin(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)

	token := registerAndLogin(t, app, "auth@example.com")
	assert.NotEmpty(t, token)

	// Duplicate registration conflicts on the email.
	body, _ := json.Marshal(map[string]string{
		"email":     "auth@example.com",
		"full_name": "Someone Else",
		"password":  "password456",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestProductEndpointsRequireAuth(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/products", "", map[string]interface{}{
		"title": "No Auth", "gender": "men",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestProductLifecycle(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)
	token := registerAndLogin(t, app, "lifecycle@example.com")

	// Create with images
	resp := doJSON(t, app, http.MethodPost, "/api/v1/products", token, map[string]interface{}{
		"title":  "Women's Running Shoes",
		"price":  59.90,
		"stock":  12,
		"gender": "women",
		"sizes":  []string{"S", "M"},
		"tags":   []string{"running"},
		"images": []string{"a.jpg", "b.jpg"},
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.FlatProduct
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "womens_running_shoes", created.Slug)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, created.Images)

	// Duplicate title conflicts
	resp = doJSON(t, app, http.MethodPost, "/api/v1/products", token, map[string]interface{}{
		"title":  "Women's Running Shoes",
		"gender": "women",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Lookup by slug
	resp = doJSON(t, app, http.MethodGet, "/api/v1/products/womens_running_shoes", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var found models.FlatProduct
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&found))
	resp.Body.Close()
	assert.Equal(t, created.ID, found.ID)

	// List with pagination
	resp = doJSON(t, app, http.MethodGet, "/api/v1/products?limit=1&offset=0", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var page []models.FlatProduct
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	resp.Body.Close()
	assert.Len(t, page, 1)

	// Partial update replacing the image set and the title
	resp = doJSON(t, app, http.MethodPatch, "/api/v1/products/"+created.ID, token, map[string]interface{}{
		"title":  "Trail Running Shoes",
		"images": []string{"c.jpg"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.FlatProduct
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	resp.Body.Close()
	assert.Equal(t, "trail_running_shoes", updated.Slug)
	assert.Equal(t, []string{"c.jpg"}, updated.Images)
	assert.Equal(t, 12, updated.Stock) // untouched field preserved

	// Delete, then the term no longer resolves
	resp = doJSON(t, app, http.MethodDelete, "/api/v1/products/"+created.ID, token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/products/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Catalog is empty again: listing is a 404, not an empty page.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/products", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestProductNotFoundPaths(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)
	token := registerAndLogin(t, app, "notfound@example.com")

	resp := doJSON(t, app, http.MethodGet, "/api/v1/products/1b4e28ba-2fa1-11d2-883f-0016d3cca427", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete, "/api/v1/products/1b4e28ba-2fa1-11d2-883f-0016d3cca427", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPatch, "/api/v1/products/1b4e28ba-2fa1-11d2-883f-0016d3cca427", token, map[string]interface{}{
		"price": 10.0,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestProductValidation(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)
	token := registerAndLogin(t, app, "validation@example.com")

	// Missing title and gender
	resp := doJSON(t, app, http.MethodPost, "/api/v1/products", token, map[string]interface{}{
		"price": 10.0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Negative price
	resp = doJSON(t, app, http.MethodPost, "/api/v1/products", token, map[string]interface{}{
		"title":  "Bad Price",
		"gender": "men",
		"price":  -1.0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
