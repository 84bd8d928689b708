package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jwtv5 "github.com/golang-jwt/jwt/v5"

	"sales-estimation/backend/internal/api/middleware"
	"sales-estimation/backend/internal/dto"
	"sales-estimation/backend/internal/service"
	"sales-estimation/backend/pkg/response"
	"sales-estimation/backend/pkg/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult   *dto.SessionResponse
	loginErr      error
	logoutErr     error
	changePassErr error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.SessionResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Logout(_ context.Context, _ *session.Claims) error {
	return m.logoutErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, _ *dto.ChangePasswordRequest) error {
	return m.changePassErr
}

// ── Mock RequestService ──

type mockRequestService struct {
	createResult  *dto.EstimationRequestResponse
	createWarns   []string
	createErr     error
	updateResult  *dto.EstimationRequestResponse
	updateWarns   []string
	updateErr     error
	getResult     *dto.EstimationRequestResponse
	getErr        error
	listResult    []dto.EstimationRequestResponse
	listTotal     int64
	listErr       error
	deleteErr     error
	statusOptions []dto.StatusOptionResponse
}

func (m *mockRequestService) Create(_ context.Context, _ *dto.EstimationRequestForm) (*dto.EstimationRequestResponse, []string, error) {
	return m.createResult, m.createWarns, m.createErr
}
func (m *mockRequestService) Update(_ context.Context, _ string, _ *dto.EstimationRequestForm) (*dto.EstimationRequestResponse, []string, error) {
	return m.updateResult, m.updateWarns, m.updateErr
}
func (m *mockRequestService) Get(_ context.Context, _ string) (*dto.EstimationRequestResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockRequestService) List(_ context.Context, _ *dto.ListRequestsRequest) ([]dto.EstimationRequestResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockRequestService) Delete(_ context.Context, _ string) error {
	return m.deleteErr
}
func (m *mockRequestService) StatusOptions() []dto.StatusOptionResponse {
	return m.statusOptions
}

// ── Mock UserService ──

type mockUserService struct {
	createResult *dto.UserResponse
	createErr    error
	getResult    *dto.UserResponse
	getErr       error
	updateResult *dto.UserResponse
	updateErr    error
	deleteErr    error
	listResult   []dto.UserResponse
	listTotal    int64
	listErr      error
}

func (m *mockUserService) Create(_ context.Context, _ *dto.CreateUserRequest) (*dto.UserResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockUserService) Get(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockUserService) Update(_ context.Context, _ string, _ *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockUserService) Delete(_ context.Context, _ string) error {
	return m.deleteErr
}
func (m *mockUserService) List(_ context.Context, _ *dto.PaginationRequest) ([]dto.UserResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}

// ── Mock SettingService ──

type mockSettingService struct {
	getResult *dto.SettingResponse
	getErr    error
	setResult *dto.SettingResponse
	setErr    error
}

func (m *mockSettingService) Get(_ context.Context, _ string) (*dto.SettingResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockSettingService) Set(_ context.Context, _, _ string) (*dto.SettingResponse, error) {
	return m.setResult, m.setErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportRequestsExcel(_ context.Context) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportDeadlinesICS(_ context.Context) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func testClaims() *session.Claims {
	return &session.Claims{
		TokenType: "session",
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        "test-jti",
			ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

// withSession ミドルウェアを通さずセッションクレームをコンテキストに入れる
func withSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeySession, testClaims())
		c.Next()
	}
}

func sampleRequestResponse() *dto.EstimationRequestResponse {
	return &dto.EstimationRequestResponse{
		ID:          "req-001",
		RequestDate: "2026-08-01",
		ProjectName: "新社屋空調設備工事",
		Status:      "not-started",
		StatusLabel: "未着手",
	}
}

func sampleForm() dto.EstimationRequestForm {
	return dto.EstimationRequestForm{
		RequestDate: "2026-08-01",
		ProjectName: "新社屋空調設備工事",
		Status:      "not-started",
	}
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.SessionResponse{Token: "test-session-token", ExpiresIn: 43200},
	}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{Password: "estimation2024"}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
	if !strings.Contains(w.Body.String(), "test-session-token") {
		t.Error("expected token in response body")
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 10001 {
		t.Errorf("expected error code 10001, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidPassword})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{Password: "wrong"}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 14001 {
		t.Errorf("expected error code 14001, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_NotConfigured(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrPasswordNotConfigured})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{Password: "anything"}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 14002 {
		t.Errorf("expected error code 14002, got %d", resp.Code)
	}
}

func TestAuthHandler_Logout_Success(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/logout", nil)

	r := gin.New()
	r.POST("/auth/logout", withSession(), h.Logout)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAuthHandler_Logout_NoSession(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/logout", nil)

	r := gin.New()
	r.POST("/auth/logout", h.Logout)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 10002 {
		t.Errorf("expected error code 10002, got %d", resp.Code)
	}
}

func TestAuthHandler_ChangePassword_WrongCurrent(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{changePassErr: service.ErrInvalidPassword})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/auth/password", jsonBody(dto.ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "new-password-123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/auth/password", withSession(), h.ChangePassword)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_ChangePassword_TooShort(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/auth/password", jsonBody(dto.ChangePasswordRequest{
		CurrentPassword: "estimation2024",
		NewPassword:     "short",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/auth/password", withSession(), h.ChangePassword)
	r.ServeHTTP(w, req)

	// binding:min=8 で弾かれる
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// RequestHandler Tests
// ═══════════════════════════════════════════════════════════

func TestRequestHandler_Create_Success(t *testing.T) {
	mock := &mockRequestService{createResult: sampleRequestResponse()}
	h := NewRequestHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/requests", jsonBody(sampleForm()))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/requests", h.Create)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestRequestHandler_Create_WithWarnings(t *testing.T) {
	mock := &mockRequestService{
		createResult: sampleRequestResponse(),
		createWarns:  []string{"通知先が見つかりません: 担当者 \"田中\" が未登録です"},
	}
	h := NewRequestHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/requests", jsonBody(sampleForm()))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/requests", h.Create)
	r.ServeHTTP(w, req)

	// 通知失敗でも登録は 201、warnings に失敗内容が載る
	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	resp := parseResponse(w)
	if len(resp.Warnings) != 1 {
		t.Errorf("expected 1 warning, got %v", resp.Warnings)
	}
}

func TestRequestHandler_Create_MissingRequired(t *testing.T) {
	h := NewRequestHandler(&mockRequestService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/requests", jsonBody(map[string]string{
		"project_name": "案件名だけ",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/requests", h.Create)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestRequestHandler_Update_NotFound(t *testing.T) {
	h := NewRequestHandler(&mockRequestService{updateErr: service.ErrRequestNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/requests/req-999", jsonBody(sampleForm()))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/requests/:id", h.Update)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestRequestHandler_Update_InvalidStatus(t *testing.T) {
	h := NewRequestHandler(&mockRequestService{updateErr: service.ErrInvalidStatus})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/requests/req-001", jsonBody(sampleForm()))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/requests/:id", h.Update)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11002 {
		t.Errorf("expected error code 11002, got %d", resp.Code)
	}
}

func TestRequestHandler_List_Success(t *testing.T) {
	mock := &mockRequestService{
		listResult: []dto.EstimationRequestResponse{*sampleRequestResponse()},
		listTotal:  1,
	}
	h := NewRequestHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/requests?page=1&page_size=20", nil)

	r := gin.New()
	r.GET("/requests", h.List)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "pagination") {
		t.Error("expected pagination metadata in response")
	}
}

func TestRequestHandler_Delete_NotFound(t *testing.T) {
	h := NewRequestHandler(&mockRequestService{deleteErr: service.ErrRequestNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/requests/req-999", nil)

	r := gin.New()
	r.DELETE("/requests/:id", h.Delete)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestRequestHandler_StatusOptions(t *testing.T) {
	mock := &mockRequestService{
		statusOptions: []dto.StatusOptionResponse{{Value: "not-started", Label: "未着手"}},
	}
	h := NewRequestHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/status-options", nil)

	r := gin.New()
	r.GET("/status-options", h.StatusOptions)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "未着手") {
		t.Error("expected status label in response")
	}
}

// ═══════════════════════════════════════════════════════════
// UserHandler Tests
// ═══════════════════════════════════════════════════════════

func TestUserHandler_Create_Success(t *testing.T) {
	mock := &mockUserService{
		createResult: &dto.UserResponse{ID: "user-001", Username: "佐藤", Email: "sato@example.co.jp"},
	}
	h := NewUserHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/users", jsonBody(dto.CreateUserRequest{
		Username: "佐藤",
		Email:    "sato@example.co.jp",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/users", h.Create)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestUserHandler_Create_InvalidEmail(t *testing.T) {
	h := NewUserHandler(&mockUserService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/users", jsonBody(dto.CreateUserRequest{
		Username: "佐藤",
		Email:    "not-an-email",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/users", h.Create)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestUserHandler_Create_DuplicateUsername(t *testing.T) {
	h := NewUserHandler(&mockUserService{createErr: service.ErrUsernameTaken})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/users", jsonBody(dto.CreateUserRequest{
		Username: "佐藤",
		Email:    "sato@example.co.jp",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/users", h.Create)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 12002 {
		t.Errorf("expected error code 12002, got %d", resp.Code)
	}
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	h := NewUserHandler(&mockUserService{getErr: service.ErrUserNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/users/user-999", nil)

	r := gin.New()
	r.GET("/users/:id", h.Get)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 12001 {
		t.Errorf("expected error code 12001, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// SettingHandler Tests
// ═══════════════════════════════════════════════════════════

func TestSettingHandler_Get_Success(t *testing.T) {
	mock := &mockSettingService{
		getResult: &dto.SettingResponse{Key: "notification_enabled", Value: "true"},
	}
	h := NewSettingHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/settings/notification_enabled", nil)

	r := gin.New()
	r.GET("/settings/:key", h.Get)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestSettingHandler_Get_Protected(t *testing.T) {
	h := NewSettingHandler(&mockSettingService{getErr: service.ErrSettingProtected})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/settings/login_password", nil)

	r := gin.New()
	r.GET("/settings/:key", h.Get)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 13002 {
		t.Errorf("expected error code 13002, got %d", resp.Code)
	}
}

func TestSettingHandler_Set_MissingValue(t *testing.T) {
	h := NewSettingHandler(&mockSettingService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/settings/display_limit", jsonBody(map[string]string{}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/settings/:key", h.Set)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_ExportRequestsExcel_Success(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("PK fake xlsx content"),
		filename: "estimation_requests_20260829.xlsx",
	}
	h := NewExportHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/export/requests.xlsx", nil)

	r := gin.New()
	r.GET("/export/requests.xlsx", h.ExportRequestsExcel)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	cd := w.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "estimation_requests_20260829.xlsx") {
		t.Errorf("expected filename in Content-Disposition, got %s", cd)
	}
}

func TestExportHandler_ExportRequestsExcel_NoData(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrExportNoRequests})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/export/requests.xlsx", nil)

	r := gin.New()
	r.GET("/export/requests.xlsx", h.ExportRequestsExcel)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 15001 {
		t.Errorf("expected error code 15001, got %d", resp.Code)
	}
}

func TestExportHandler_ExportDeadlinesICS_Success(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"),
		filename: "estimation_deadlines.ics",
	}
	h := NewExportHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/export/deadlines.ics", nil)

	r := gin.New()
	r.GET("/export/deadlines.ics", h.ExportDeadlinesICS)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/calendar") {
		t.Errorf("expected text/calendar content type, got %s", ct)
	}
}
