// Package integration roda os fluxos completos da API contra um PostgreSQL
// real. Os testes são ignorados quando o banco não está acessível.
package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cleberrangel/houseforge-api/internal/cache"
	"github.com/cleberrangel/houseforge-api/internal/database"
	"github.com/cleberrangel/houseforge-api/internal/estimator"
	"github.com/cleberrangel/houseforge-api/internal/handler"
	"github.com/cleberrangel/houseforge-api/internal/middleware"
	"github.com/cleberrangel/houseforge-api/internal/migration"
	"github.com/cleberrangel/houseforge-api/internal/model"
	"github.com/cleberrangel/houseforge-api/internal/repository"
	"github.com/cleberrangel/houseforge-api/internal/service"
	"github.com/cleberrangel/houseforge-api/internal/websocket"
	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
)

// TestContext holds all dependencies for integration tests
type TestContext struct {
	DB          *sql.DB
	Router      *gin.Engine
	WSHub       *websocket.Hub
	AuthService *service.AuthService
}

// session é um usuário logado: cookie de sessão e token CSRF
type session struct {
	Cookie    *http.Cookie
	CSRFToken string
}

// setupTestContext cria um banco temporário, aplica as migrações e monta o
// roteador completo com os repositórios reais
func setupTestContext(t *testing.T) *TestContext {
	t.Helper()
	ctx := context.Background()

	dbConfig := database.Config{
		Host:     getEnvOrDefault("TEST_DB_HOST", "127.0.0.1"),
		Port:     getEnvOrDefault("TEST_DB_PORT", "5432"),
		User:     getEnvOrDefault("TEST_DB_USER", "postgres"),
		Password: getEnvOrDefault("TEST_DB_PASSWORD", "postgres"),
		DBName:   fmt.Sprintf("test_houseforge_%d", time.Now().UnixNano()),
		SSLMode:  "disable",
	}

	adminConfig := dbConfig
	adminConfig.DBName = "postgres"

	adminDB, err := database.Connect(ctx, adminConfig)
	if err != nil {
		t.Skipf("Skipping test: could not connect to PostgreSQL: %v", err)
	}
	_, err = adminDB.Exec(fmt.Sprintf("CREATE DATABASE %s", dbConfig.DBName))
	adminDB.Close()
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	testDB, err := database.Connect(ctx, dbConfig)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
		if adminDB, err := database.Connect(context.Background(), adminConfig); err == nil {
			adminDB.Exec(fmt.Sprintf("DROP DATABASE IF EXISTS %s", dbConfig.DBName))
			adminDB.Close()
		}
	})

	if err := migration.NewMigrator(testDB).Run(ctx); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	hubCtx, cancel := context.WithCancel(ctx)
	t.Cleanup(cancel)
	wsHub := websocket.NewHub()
	go wsHub.Run(hubCtx)

	projectCache := cache.NewCache(time.Minute)
	t.Cleanup(projectCache.Stop)

	authService, err := service.NewAuthService(ctx, repository.NewUserRepository(testDB), service.AuthConfig{
		SessionDuration: time.Hour,
		AdminUsername:   "testuser",
		AdminPassword:   "testpassword",
	})
	if err != nil {
		t.Fatalf("Failed to init auth: %v", err)
	}

	estimates := service.NewEstimateService()
	projects := service.NewProjectService(repository.NewProjectRepository(testDB), estimates, projectCache, wsHub)

	gin.SetMode(gin.TestMode)
	router := handler.NewRouter(handler.RouterConfig{
		TokenAPI:  "integration-token",
		Auth:      authService,
		Estimates: estimates,
		Projects:  projects,
		Hub:       wsHub,
		Health:    handler.NewHealthHandler(testDB, wsHub, projectCache, "test"),
		Limiter:   middleware.NewRateLimiter(middleware.RateLimitConfig{RequestsPerMinute: 6000, Burst: 1000}),
	})

	return &TestContext{
		DB:          testDB,
		Router:      router,
		WSHub:       wsHub,
		AuthService: authService,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// login faz o login e retorna o cookie de sessão e o token CSRF
func (tc *TestContext) login(t *testing.T, username, password string) session {
	t.Helper()

	jsonData, _ := json.Marshal(map[string]string{"username": username, "password": password})
	req, _ := http.NewRequest("POST", "/api/auth/login", bytes.NewReader(jsonData))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	tc.Router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Login failed with status %d: %s", w.Code, w.Body.String())
	}

	var s session
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "session_id" {
			s.Cookie = cookie
		}
	}

	var response struct {
		CSRFToken string `json:"csrf_token"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	s.CSRFToken = response.CSRFToken
	return s
}

// do executa uma requisição autenticada
func (tc *TestContext) do(s session, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if s.Cookie != nil {
		req.AddCookie(s.Cookie)
	}
	if s.CSRFToken != "" {
		req.Header.Set(middleware.CSRFTokenHeader, s.CSRFToken)
	}
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	tc.Router.ServeHTTP(w, req)
	return w
}

func decodeProject(t *testing.T, w *httptest.ResponseRecorder) model.Project {
	t.Helper()
	var resp struct {
		Data model.Project `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode project: %v (%s)", err, w.Body.String())
	}
	return resp.Data
}

func projectBody(title string, sqft float64, tier string) io.Reader {
	return strings.NewReader(fmt.Sprintf(
		`{"title":%q,"location":"Curitiba","square_feet":%g,"rooms":4,"floors":2,"bathrooms":3,"budget_tier":%q}`,
		title, sqft, tier))
}

// TestCompleteUserWorkflow cobre criação, consulta, recálculo, status,
// exportação e remoção de uma obra
func TestCompleteUserWorkflow(t *testing.T) {
	tc := setupTestContext(t)
	s := tc.login(t, "testuser", "testpassword")

	var created model.Project

	t.Run("Step1_CreateProject", func(t *testing.T) {
		w := tc.do(s, "POST", "/api/web/projects", projectBody("Casa <Jardim>", 2000, "low"))
		if w.Code != http.StatusCreated {
			t.Fatalf("Create failed: %d %s", w.Code, w.Body.String())
		}
		created = decodeProject(t, w)
		if created.TotalCost != 3730680 || created.TotalDays != 291 {
			t.Errorf("Unexpected totals: %v / %d", created.TotalCost, created.TotalDays)
		}
		if created.Title != "Casa &lt;Jardim&gt;" {
			t.Errorf("Title should be stored escaped, got %q", created.Title)
		}
	})

	if created.ID == "" {
		t.Fatal("project was not created")
	}
	path := "/api/web/projects/" + created.ID

	t.Run("Step2_GetStoredEstimate", func(t *testing.T) {
		w := tc.do(s, "GET", path, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("Get failed: %d", w.Code)
		}
		got := decodeProject(t, w)
		if got.Estimate == nil || got.Estimate.Materials.Foundation.CementBags != 280 {
			t.Errorf("Stored estimate not returned: %+v", got.Estimate)
		}
		if got.ModelVersion != estimator.ModelVersion {
			t.Errorf("Expected model version %s, got %s", estimator.ModelVersion, got.ModelVersion)
		}
	})

	t.Run("Step3_UpdateRecomputes", func(t *testing.T) {
		w := tc.do(s, "PUT", path, strings.NewReader(`{"budget_tier":"medium"}`))
		if w.Code != http.StatusOK {
			t.Fatalf("Update failed: %d %s", w.Code, w.Body.String())
		}
		if got := decodeProject(t, w); got.TotalCost != 5735800 {
			t.Errorf("Expected medium total 5735800, got %v", got.TotalCost)
		}
	})

	t.Run("Step4_StatusTransitions", func(t *testing.T) {
		for _, step := range []struct {
			status string
			code   int
		}{
			{"completed", http.StatusConflict},
			{"in_progress", http.StatusOK},
			{"completed", http.StatusOK},
			{"cancelled", http.StatusConflict},
		} {
			w := tc.do(s, "PUT", path+"/status", strings.NewReader(`{"status":"`+step.status+`"}`))
			if w.Code != step.code {
				t.Errorf("status %s: expected %d, got %d", step.status, step.code, w.Code)
			}
		}
	})

	t.Run("Step5_Export", func(t *testing.T) {
		w := tc.do(s, "GET", path+"/export", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("Export failed: %d", w.Code)
		}
		if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "Casa <Jardim>_medium.xlsx") {
			t.Errorf("Unexpected filename: %s", cd)
		}
	})

	t.Run("Step6_Delete", func(t *testing.T) {
		if w := tc.do(s, "DELETE", path, nil); w.Code != http.StatusOK {
			t.Fatalf("Delete failed: %d", w.Code)
		}
		if w := tc.do(s, "GET", path, nil); w.Code != http.StatusNotFound {
			t.Errorf("Expected 404 after delete, got %d", w.Code)
		}
	})
}

// TestWebSocketProjectEvents verifica que o dono recebe os eventos da obra
func TestWebSocketProjectEvents(t *testing.T) {
	tc := setupTestContext(t)
	s := tc.login(t, "testuser", "testpassword")

	server := httptest.NewServer(tc.Router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?session_id=" + s.Cookie.Value
	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var welcome websocket.Message
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("Failed to read welcome: %v", err)
	}

	w := tc.do(s, "POST", "/api/web/projects", projectBody("Sobrado", 1500, "high"))
	if w.Code != http.StatusCreated {
		t.Fatalf("Create failed: %d", w.Code)
	}
	created := decodeProject(t, w)

	var event websocket.ProjectEvent
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("Failed to read event: %v", err)
	}
	if event.Type != websocket.EventProjectCreated || event.ProjectID != created.ID {
		t.Errorf("Unexpected event: %+v", event)
	}
}

// TestConcurrentUserOperations cria obras em paralelo para vários usuários
// e confere que cada um só enxerga as suas
func TestConcurrentUserOperations(t *testing.T) {
	tc := setupTestContext(t)
	ctx := context.Background()

	const users, perUser = 4, 3
	sessions := make([]session, users)
	for i := 0; i < users; i++ {
		username := fmt.Sprintf("user%d", i)
		if err := tc.AuthService.CreateUser(ctx, username, "password123"); err != nil {
			t.Fatalf("CreateUser %s: %v", username, err)
		}
		sessions[i] = tc.login(t, username, "password123")
	}

	var wg sync.WaitGroup
	errs := make(chan string, users*perUser)
	for i := 0; i < users; i++ {
		for j := 0; j < perUser; j++ {
			wg.Add(1)
			go func(i, j int) {
				defer wg.Done()
				w := tc.do(sessions[i], "POST", "/api/web/projects", projectBody(fmt.Sprintf("Obra %d-%d", i, j), 1000+float64(j)*100, "medium"))
				if w.Code != http.StatusCreated {
					errs <- fmt.Sprintf("user%d project %d: status %d", i, j, w.Code)
				}
			}(i, j)
		}
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}

	for i, s := range sessions {
		w := tc.do(s, "GET", "/api/web/projects", nil)
		var resp struct {
			Data []model.Project `json:"data"`
			Meta model.Meta      `json:"meta"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode list: %v", err)
		}
		if resp.Meta.Total != perUser {
			t.Errorf("user%d: expected %d projects, got %d", i, perUser, resp.Meta.Total)
		}
		for _, p := range resp.Data {
			if p.OwnerID != fmt.Sprintf("user%d", i) {
				t.Errorf("user%d sees project of %s", i, p.OwnerID)
			}
		}
	}
}

// TestDataConsistency confere que a estimativa gravada é a mesma que o
// estimador produz e que transições concorrentes não se sobrepõem
func TestDataConsistency(t *testing.T) {
	tc := setupTestContext(t)
	ctx := context.Background()
	repo := repository.NewProjectRepository(tc.DB)
	s := tc.login(t, "testuser", "testpassword")

	w := tc.do(s, "POST", "/api/web/projects", projectBody("Consistência", 1800, "high"))
	if w.Code != http.StatusCreated {
		t.Fatalf("Create failed: %d", w.Code)
	}
	created := decodeProject(t, w)

	t.Run("StoredEstimateMatchesEstimator", func(t *testing.T) {
		stored, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		fresh, err := estimator.Estimate(stored.Input)
		if err != nil {
			t.Fatalf("Estimate: %v", err)
		}

		a, _ := json.Marshal(stored.Estimate)
		b, _ := json.Marshal(fresh)
		if !bytes.Equal(a, b) {
			t.Errorf("Stored estimate differs from a fresh run")
		}
	})

	t.Run("ConcurrentStatusTransition", func(t *testing.T) {
		var wg sync.WaitGroup
		codes := make(chan int, 2)
		for _, status := range []string{"in_progress", "cancelled"} {
			wg.Add(1)
			go func(status string) {
				defer wg.Done()
				codes <- tc.do(s, "PUT", "/api/web/projects/"+created.ID+"/status", strings.NewReader(`{"status":"`+status+`"}`)).Code
			}(status)
		}
		wg.Wait()
		close(codes)

		ok := 0
		for code := range codes {
			if code == http.StatusOK {
				ok++
			} else if code != http.StatusConflict {
				t.Errorf("Unexpected status code %d", code)
			}
		}
		if ok != 1 {
			t.Errorf("Expected exactly one transition to win, got %d", ok)
		}
	})
}

// TestHealthWithDatabase verifica o readiness com o banco conectado
func TestHealthWithDatabase(t *testing.T) {
	tc := setupTestContext(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health/ready", nil)
	tc.Router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected ready with database, got %d: %s", w.Code, w.Body.String())
	}
}
