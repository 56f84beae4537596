package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rkive250/MedNotify/internal/api/middleware"
	"github.com/rkive250/MedNotify/internal/dto"
	"github.com/rkive250/MedNotify/internal/model"
	"github.com/rkive250/MedNotify/internal/service"
	pkgerrors "github.com/rkive250/MedNotify/pkg/errors"
	"github.com/rkive250/MedNotify/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	registerResult *dto.TokenResponse
	registerErr    error
	loginResult    *dto.TokenResponse
	loginErr       error
	logoutErr      error
	saveTokenErr   error
	deleteErr      error

	logoutUser   int64
	logoutJTI    string
	logoutDevice string
	savedToken   string
}

func (m *mockAuthService) Register(_ context.Context, _ *dto.RegisterRequest) (*dto.TokenResponse, error) {
	return m.registerResult, m.registerErr
}
func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Logout(_ context.Context, userID int64, jti string, _ time.Time, device string) error {
	m.logoutUser, m.logoutJTI, m.logoutDevice = userID, jti, device
	return m.logoutErr
}
func (m *mockAuthService) SaveDeviceToken(_ context.Context, _ int64, token string) error {
	m.savedToken = token
	return m.saveTokenErr
}
func (m *mockAuthService) DeleteAccount(_ context.Context, _ int64, _ string) error {
	return m.deleteErr
}

// ── Mock RecordService ──

type mockRecordService struct {
	createResult *dto.CreateRecordResponse
	createErr    error
	listResult   []dto.RecordResponse
	listErr      error
	getResult    *dto.RecordResponse
	getErr       error
	updateErr    error

	listType model.RecordType
	listDate string
	getID    int64
}

func (m *mockRecordService) Create(_ context.Context, _ int64, _ *dto.CreateRecordRequest) (*dto.CreateRecordResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockRecordService) CreateMedication(_ context.Context, _ int64, _ *dto.CreateMedicationRequest) (*dto.CreateRecordResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockRecordService) List(_ context.Context, _ int64, t model.RecordType, date string) ([]dto.RecordResponse, error) {
	m.listType, m.listDate = t, date
	return m.listResult, m.listErr
}
func (m *mockRecordService) Get(_ context.Context, _ int64, _ model.RecordType, id int64) (*dto.RecordResponse, error) {
	m.getID = id
	return m.getResult, m.getErr
}
func (m *mockRecordService) Update(_ context.Context, _ int64, _ model.RecordType, _ int64, _ *dto.UpdateRecordRequest) (*dto.RecordResponse, error) {
	return m.getResult, m.updateErr
}

// ── Mock DeleteService ──

type mockDeleteService struct {
	requestResult *dto.DeleteRequestResponse
	requestErr    error
	confirmErr    error
	cancelErr     error

	requestType model.RecordType
	requestID   int64
	cancelled   string
}

func (m *mockDeleteService) Request(_ context.Context, _ int64, t model.RecordType, id int64) (*dto.DeleteRequestResponse, error) {
	m.requestType, m.requestID = t, id
	return m.requestResult, m.requestErr
}
func (m *mockDeleteService) Confirm(_ context.Context, _ int64, _ *dto.ConfirmDeleteRequest) error {
	return m.confirmErr
}
func (m *mockDeleteService) Cancel(_ context.Context, _ int64, requestID string) error {
	m.cancelled = requestID
	return m.cancelErr
}

// ── Mock DisplayService ──

type mockDisplayService struct {
	result *dto.DisplayResponse
	err    error
}

func (m *mockDisplayService) Latest(_ context.Context, _ int64) (*dto.DisplayResponse, error) {
	return m.result, m.err
}
func (m *mockDisplayService) ReferenceRanges() map[string]string {
	return map[string]string{"glucosa": "70 - 110 mg/dL (en ayunas)"}
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	data     []byte
	filename string
	err      error
}

func (m *mockExportService) ExportRecords(_ context.Context, _ int64) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportMedications(_ context.Context, _ int64) ([]byte, string, error) {
	return m.data, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

const testUserID int64 = 7

func setAuth(c *gin.Context) {
	c.Set("user_id", testUserID)
	c.Set("token_jti", "test-jti")
	c.Set("token_exp", time.Now().Add(15*time.Minute))
}

// serve routes one request through a fresh engine; authed injects the
// context values JWTAuth would set.
func serve(method, pattern, target string, body io.Reader, authed bool, h gin.HandlerFunc) *httptest.ResponseRecorder {
	r := gin.New()
	handlers := []gin.HandlerFunc{}
	if authed {
		handlers = append(handlers, func(c *gin.Context) { setAuth(c); c.Next() })
	}
	r.Handle(method, pattern, append(handlers, h)...)

	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func expect(t *testing.T, w *httptest.ResponseRecorder, status, code int) {
	t.Helper()
	if w.Code != status {
		t.Errorf("expected status %d, got %d (%s)", status, w.Code, w.Body.String())
	}
	if resp := parseResponse(w); resp.Code != code {
		t.Errorf("expected code %d, got %d", code, resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Register_Success(t *testing.T) {
	mock := &mockAuthService{registerResult: &dto.TokenResponse{AccessToken: "tok", ExpiresIn: 86400}}
	h := NewAuthHandler(mock)

	w := serve("POST", "/auth/register", "/auth/register", jsonBody(dto.RegisterRequest{
		Name: "Ana", Email: "ana@example.com", Password: "password123",
	}), false, h.Register)

	expect(t, w, http.StatusCreated, 0)
}

func TestAuthHandler_Register_BindFailure(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := serve("POST", "/auth/register", "/auth/register", jsonBody(map[string]string{
		"name": "Ana", "email": "no-es-correo", "password": "password123",
	}), false, h.Register)

	expect(t, w, http.StatusBadRequest, 10001)
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{registerErr: service.ErrEmailTaken})

	w := serve("POST", "/auth/register", "/auth/register", jsonBody(dto.RegisterRequest{
		Name: "Ana", Email: "ana@example.com", Password: "password123",
	}), false, h.Register)

	expect(t, w, http.StatusConflict, 11002)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	w := serve("POST", "/auth/login", "/auth/login", jsonBody(dto.LoginRequest{
		Email: "ana@example.com", Password: "wrong",
	}), false, h.Login)

	expect(t, w, http.StatusUnauthorized, 11001)
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := serve("POST", "/auth/login", "/auth/login", strings.NewReader("invalid json"), false, h.Login)

	expect(t, w, http.StatusBadRequest, 10001)
}

func TestAuthHandler_Logout_PassesSession(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	w := serve("POST", "/auth/logout", "/auth/logout", jsonBody(dto.LogoutRequest{DeviceToken: "phone-1"}), true, h.Logout)

	expect(t, w, http.StatusOK, 0)
	if mock.logoutUser != testUserID || mock.logoutJTI != "test-jti" || mock.logoutDevice != "phone-1" {
		t.Errorf("unexpected logout args: %+v", mock)
	}
}

func TestAuthHandler_Logout_EmptyBody(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	w := serve("POST", "/auth/logout", "/auth/logout", http.NoBody, true, h.Logout)

	expect(t, w, http.StatusOK, 0)
	if mock.logoutDevice != "" {
		t.Errorf("device token should be empty, got %q", mock.logoutDevice)
	}
}

func TestAuthHandler_Logout_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := serve("POST", "/auth/logout", "/auth/logout", nil, false, h.Logout)

	expect(t, w, http.StatusUnauthorized, 10002)
}

func TestAuthHandler_SaveDeviceToken(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	w := serve("POST", "/devices/token", "/devices/token", jsonBody(dto.SaveDeviceTokenRequest{Token: "fcm-abc"}), true, h.SaveDeviceToken)

	expect(t, w, http.StatusOK, 0)
	if mock.savedToken != "fcm-abc" {
		t.Errorf("token not forwarded: %q", mock.savedToken)
	}
}

func TestAuthHandler_DeleteAccount_WrongPassword(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{deleteErr: service.ErrWrongPassword})

	w := serve("DELETE", "/account", "/account", jsonBody(dto.DeleteAccountRequest{Password: "x"}), true, h.DeleteAccount)

	expect(t, w, http.StatusUnauthorized, 11003)
}

// ═══════════════════════════════════════════════════════════
// RecordHandler Tests
// ═══════════════════════════════════════════════════════════

func TestRecordHandler_Create_Success(t *testing.T) {
	mock := &mockRecordService{createResult: &dto.CreateRecordResponse{ID: 1, Type: "glucose", SummarySent: true}}
	h := NewRecordHandler(mock, &mockDeleteService{})

	v := 65.0
	w := serve("POST", "/records", "/records", jsonBody(dto.CreateRecordRequest{
		Type: "glucose", Date: "2025-03-01", Time: "08:05:00", Value: &v,
	}), true, h.Create)

	expect(t, w, http.StatusCreated, 0)
}

func TestRecordHandler_Create_ValidationDetails(t *testing.T) {
	mock := &mockRecordService{createErr: pkgerrors.Invalid("value", "debe estar entre 0 y 999.99")}
	h := NewRecordHandler(mock, &mockDeleteService{})

	v := 1200.0
	w := serve("POST", "/records", "/records", jsonBody(dto.CreateRecordRequest{
		Type: "glucose", Date: "2025-03-01", Time: "08:05:00", Value: &v,
	}), true, h.Create)

	expect(t, w, http.StatusBadRequest, 10001)
	resp := parseResponse(w)
	if resp.Details != "value" || resp.Message != "debe estar entre 0 y 999.99" {
		t.Errorf("unexpected validation envelope: %+v", resp)
	}
}

func TestRecordHandler_List_PassesTypeAndDate(t *testing.T) {
	mock := &mockRecordService{listResult: []dto.RecordResponse{{ID: 3, Type: "heart_rate"}}}
	h := NewRecordHandler(mock, &mockDeleteService{})

	w := serve("GET", "/heart-rate", "/heart-rate?date=2025-03-01", nil, true, h.List(model.RecordHeartRate))

	expect(t, w, http.StatusOK, 0)
	if mock.listType != model.RecordHeartRate || mock.listDate != "2025-03-01" {
		t.Errorf("unexpected list args: %s %s", mock.listType, mock.listDate)
	}
}

func TestRecordHandler_Get_BadID(t *testing.T) {
	h := NewRecordHandler(&mockRecordService{}, &mockDeleteService{})

	w := serve("GET", "/glucose/:id", "/glucose/abc", nil, true, h.Get(model.RecordGlucose))

	expect(t, w, http.StatusBadRequest, 10001)
}

func TestRecordHandler_Get_Forbidden(t *testing.T) {
	mock := &mockRecordService{getErr: service.ErrRecordForbidden}
	h := NewRecordHandler(mock, &mockDeleteService{})

	w := serve("GET", "/glucose/:id", "/glucose/42", nil, true, h.Get(model.RecordGlucose))

	expect(t, w, http.StatusForbidden, 12002)
	if mock.getID != 42 {
		t.Errorf("expected id 42, got %d", mock.getID)
	}
}

func TestRecordHandler_Update_NotFound(t *testing.T) {
	h := NewRecordHandler(&mockRecordService{updateErr: service.ErrRecordNotFound}, &mockDeleteService{})

	w := serve("PUT", "/oxygenation/:id", "/oxygenation/5", jsonBody(map[string]int{"value": 97}), true, h.Update(model.RecordOxygenation))

	expect(t, w, http.StatusNotFound, 12001)
}

func TestRecordHandler_Delete_OpensRequest(t *testing.T) {
	del := &mockDeleteService{requestResult: &dto.DeleteRequestResponse{DeleteRequestID: "req-1", PushDelivered: true}}
	h := NewRecordHandler(&mockRecordService{}, del)

	w := serve("DELETE", "/blood-pressure/:id", "/blood-pressure/9", nil, true, h.Delete(model.RecordBloodPressure))

	expect(t, w, http.StatusCreated, 0)
	if del.requestType != model.RecordBloodPressure || del.requestID != 9 {
		t.Errorf("unexpected request args: %s %d", del.requestType, del.requestID)
	}
}

func TestRecordHandler_InternalError(t *testing.T) {
	h := NewRecordHandler(&mockRecordService{listErr: errors.New("connection reset")}, &mockDeleteService{})

	w := serve("GET", "/glucose", "/glucose", nil, true, h.List(model.RecordGlucose))

	expect(t, w, http.StatusInternalServerError, 50000)
	if strings.Contains(w.Body.String(), "connection reset") {
		t.Error("internal error detail leaked to the client")
	}
}

func TestRecordHandler_BodyTooLarge(t *testing.T) {
	h := NewRecordHandler(&mockRecordService{}, &mockDeleteService{})

	r := gin.New()
	r.Use(middleware.BodyLimit(64))
	r.POST("/records", func(c *gin.Context) { setAuth(c); c.Next() }, h.Create)

	big := `{"type":"glucose","date":"2025-03-01","time":"08:00:00","value":` + strings.Repeat("1", 200) + `}`
	req := httptest.NewRequest("POST", "/records", strings.NewReader(big))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	expect(t, w, http.StatusRequestEntityTooLarge, 10005)
}

// ═══════════════════════════════════════════════════════════
// DeleteRequestHandler Tests
// ═══════════════════════════════════════════════════════════

func TestDeleteRequestHandler_Confirm_Success(t *testing.T) {
	h := NewDeleteRequestHandler(&mockDeleteService{})

	w := serve("POST", "/delete-requests/confirm", "/delete-requests/confirm", jsonBody(dto.ConfirmDeleteRequest{
		DeleteRequestID: "req-1", Password: "password123",
	}), true, h.Confirm)

	expect(t, w, http.StatusOK, 0)
	if !strings.Contains(w.Body.String(), service.DeleteSuccessMessage) {
		t.Errorf("missing success message: %s", w.Body.String())
	}
}

func TestDeleteRequestHandler_Confirm_Errors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   int
	}{
		{"wrong password", service.ErrWrongPassword, http.StatusUnauthorized, 11003},
		{"unknown request", service.ErrDeleteRequestNotFound, http.StatusNotFound, 13001},
		{"expired", service.ErrDeleteRequestExpired, http.StatusNotFound, 13002},
		{"record gone", service.ErrRecordNotFound, http.StatusNotFound, 12001},
		{"foreign record", service.ErrRecordForbidden, http.StatusForbidden, 12002},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewDeleteRequestHandler(&mockDeleteService{confirmErr: tc.err})
			w := serve("POST", "/delete-requests/confirm", "/delete-requests/confirm", jsonBody(dto.ConfirmDeleteRequest{
				DeleteRequestID: "req-1", Password: "x",
			}), true, h.Confirm)
			expect(t, w, tc.status, tc.code)
		})
	}
}

func TestDeleteRequestHandler_Confirm_MissingFields(t *testing.T) {
	h := NewDeleteRequestHandler(&mockDeleteService{})

	w := serve("POST", "/delete-requests/confirm", "/delete-requests/confirm", jsonBody(map[string]string{"password": "x"}), true, h.Confirm)

	expect(t, w, http.StatusBadRequest, 10001)
}

func TestDeleteRequestHandler_Cancel(t *testing.T) {
	del := &mockDeleteService{}
	h := NewDeleteRequestHandler(del)

	w := serve("DELETE", "/delete-requests/:id", "/delete-requests/req-9", nil, true, h.Cancel)

	expect(t, w, http.StatusOK, 0)
	if del.cancelled != "req-9" {
		t.Errorf("expected req-9, got %q", del.cancelled)
	}
}

// ═══════════════════════════════════════════════════════════
// Display / Export Tests
// ═══════════════════════════════════════════════════════════

func TestDisplayHandler_Latest(t *testing.T) {
	h := NewDisplayHandler(&mockDisplayService{result: &dto.DisplayResponse{
		BloodPressure: "120/80 mmHg", Oxygenation: "N/A", Glucose: "65 mg/dL", HeartRate: "N/A",
	}})

	w := serve("GET", "/displays/tv/:user_id", "/displays/tv/3", nil, false, h.Latest)

	expect(t, w, http.StatusOK, 0)
	if !strings.Contains(w.Body.String(), `"presion_arterial":"120/80 mmHg"`) {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestDisplayHandler_NoData(t *testing.T) {
	h := NewDisplayHandler(&mockDisplayService{err: service.ErrNoDisplayData})

	w := serve("GET", "/displays/smartwatch/:user_id", "/displays/smartwatch/3", nil, false, h.Latest)

	expect(t, w, http.StatusNotFound, 14001)
}

func TestDisplayHandler_BadUserID(t *testing.T) {
	h := NewDisplayHandler(&mockDisplayService{})

	w := serve("GET", "/displays/tv/:user_id", "/displays/tv/-1", nil, false, h.Latest)

	expect(t, w, http.StatusBadRequest, 10001)
}

func TestDisplayHandler_ReferenceRanges(t *testing.T) {
	h := NewDisplayHandler(&mockDisplayService{})

	w := serve("GET", "/health/reference-ranges", "/health/reference-ranges", nil, false, h.ReferenceRanges)

	expect(t, w, http.StatusOK, 0)
}

func TestExportHandler_ExportRecords(t *testing.T) {
	h := NewExportHandler(&mockExportService{buf: bytes.NewBufferString("xlsx"), filename: "registros_salud_7.xlsx"})

	w := serve("GET", "/export/records.xlsx", "/export/records.xlsx", nil, true, h.ExportRecords)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("Content-Disposition"); got != "attachment; filename*=UTF-8''registros_salud_7.xlsx" {
		t.Errorf("unexpected Content-Disposition: %s", got)
	}
	if got := w.Header().Get("Content-Type"); got != contentTypeXLSX {
		t.Errorf("unexpected Content-Type: %s", got)
	}
	if w.Body.String() != "xlsx" {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestExportHandler_ExportMedications(t *testing.T) {
	h := NewExportHandler(&mockExportService{data: []byte("BEGIN:VCALENDAR"), filename: "medicamentos_7.ics"})

	w := serve("GET", "/export/medications.ics", "/export/medications.ics", nil, true, h.ExportMedications)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/calendar") {
		t.Errorf("unexpected Content-Type: %s", w.Header().Get("Content-Type"))
	}
}

func TestExportHandler_Failure(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrExportFailed})

	w := serve("GET", "/export/records.xlsx", "/export/records.xlsx", nil, true, h.ExportRecords)

	expect(t, w, http.StatusInternalServerError, 50000)
}
