package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"teamboard-api/internal/auth"
	"teamboard-api/internal/jwt"
	"teamboard-api/internal/logger"
	"teamboard-api/internal/middleware"
	"teamboard-api/internal/models"
	"teamboard-api/internal/session"
	"teamboard-api/pkg/status"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Login(ctx context.Context, email, password, totpCode string) (*auth.Result, error) {
	args := m.Called(ctx, email, password, totpCode)
	if r := args.Get(0); r != nil {
		return r.(*auth.Result), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthService) Refresh(ctx context.Context, refreshToken string) (*auth.Result, error) {
	args := m.Called(ctx, refreshToken)
	if r := args.Get(0); r != nil {
		return r.(*auth.Result), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, accessToken string, accessClaims *jwt.Claims, refreshToken string) error {
	args := m.Called(ctx, accessToken, accessClaims, refreshToken)
	return args.Error(0)
}

func testResult() *auth.Result {
	now := time.Now()
	return &auth.Result{
		Pair: jwt.TokenPair{
			AccessToken:      "access-1",
			RefreshToken:     "refresh-1",
			TokenType:        "Bearer",
			ExpiresIn:        900,
			AccessExpiresAt:  now.Add(15 * time.Minute),
			RefreshExpiresAt: now.Add(7 * 24 * time.Hour),
		},
		User: &models.User{ID: "user-1", Email: "ada@example.com", Role: models.RoleMember, DisplayName: "Ada"},
	}
}

var testSession = &session.Session{
	Token:  "access-1",
	Claims: &jwt.Claims{UserID: "user-1", Email: "ada@example.com", Role: models.RoleMember},
	User:   &models.UserSnapshot{ID: "user-1", Role: models.RoleMember, Status: models.StatusActive},
}

func newTestRouter(svc AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(svc, CookieOptions{}, logger.Discard())

	v1 := r.Group("/api/v1")
	RegisterPublicRoutes(v1, h)

	protected := v1.Group("", func(c *gin.Context) {
		if c.GetHeader("X-Test-Session") == "yes" {
			c.Set(middleware.ContextKeySession, testSession)
		}
		c.Next()
	})
	RegisterProtectedRoutes(protected, h)
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) status.ErrorEnvelope {
	t.Helper()
	var env status.ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestHandleLogin_Success(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Login", mock.Anything, "ada@example.com", "correct horse", "").Return(testResult(), nil)
	r := newTestRouter(svc)

	w := postJSON(t, r, "/api/v1/auth/login", LoginRequest{Email: "ada@example.com", Password: "correct horse"})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, status.StatusLoginSuccess, resp.Code)
	assert.Equal(t, "access-1", resp.AccessToken)
	assert.Equal(t, "refresh-1", resp.RefreshToken)
	assert.Equal(t, int64(900), resp.ExpiresIn)
	assert.Equal(t, "user-1", resp.User.ID)

	access := cookieNamed(w, "accessToken")
	require.NotNil(t, access)
	assert.Equal(t, "access-1", access.Value)
	assert.True(t, access.HttpOnly)
	assert.Equal(t, 900, access.MaxAge)

	refresh := cookieNamed(w, "refreshToken")
	require.NotNil(t, refresh)
	assert.Equal(t, refreshCookiePath, refresh.Path)
	assert.True(t, refresh.HttpOnly)

	svc.AssertExpectations(t)
}

func TestHandleLogin_ValidationFailure(t *testing.T) {
	svc := new(mockAuthService)
	r := newTestRouter(svc)

	w := postJSON(t, r, "/api/v1/auth/login", map[string]string{"email": "not-an-email", "password": "correct horse"})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, status.CodeValidationFailed, errorBody(t, w).Error.Code)
	svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleLogin_Rejections(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   status.Code
	}{
		{auth.ErrInvalidCredentials, http.StatusUnauthorized, status.CodeInvalidCredentials},
		{auth.ErrMFARequired, http.StatusUnauthorized, status.CodeMFARequired},
		{auth.ErrInvalidMFACode, http.StatusUnauthorized, status.CodeInvalidMFACode},
		{auth.ErrAccountInactive, http.StatusUnauthorized, status.CodeAccountInactive},
		{errors.Join(auth.ErrUnavailable, errors.New("dial tcp: refused")), http.StatusServiceUnavailable, status.CodeServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			svc := new(mockAuthService)
			svc.On("Login", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tc.err)

			w := postJSON(t, newTestRouter(svc), "/api/v1/auth/login", LoginRequest{Email: "ada@example.com", Password: "correct horse"})

			assert.Equal(t, tc.status, w.Code)
			body := errorBody(t, w)
			assert.Equal(t, tc.code, body.Error.Code)
			assert.NotContains(t, body.Error.Message, "dial tcp")
			assert.Nil(t, cookieNamed(w, "accessToken"))
		})
	}
}

func TestHandleRefresh_Sources(t *testing.T) {
	t.Run("cookie", func(t *testing.T) {
		svc := new(mockAuthService)
		svc.On("Refresh", mock.Anything, "from-cookie").Return(testResult(), nil)

		w := postJSON(t, newTestRouter(svc), "/api/v1/auth/refresh", RefreshRequest{RefreshToken: "from-body"},
			&http.Cookie{Name: "refreshToken", Value: "from-cookie"})

		require.Equal(t, http.StatusOK, w.Code)
		var resp TokenResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, status.StatusTokenRefreshed, resp.Code)
		svc.AssertExpectations(t)
	})

	t.Run("body", func(t *testing.T) {
		svc := new(mockAuthService)
		svc.On("Refresh", mock.Anything, "from-body").Return(testResult(), nil)

		w := postJSON(t, newTestRouter(svc), "/api/v1/auth/refresh", RefreshRequest{RefreshToken: "from-body"})

		require.Equal(t, http.StatusOK, w.Code)
		assert.NotNil(t, cookieNamed(w, "accessToken"))
		svc.AssertExpectations(t)
	})

	t.Run("missing", func(t *testing.T) {
		svc := new(mockAuthService)

		w := postJSON(t, newTestRouter(svc), "/api/v1/auth/refresh", nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, status.CodeNoToken, errorBody(t, w).Error.Code)
	})
}

func TestHandleRefresh_RevokedClearsCookies(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Refresh", mock.Anything, "reused").Return(nil, auth.ErrRefreshRevoked)

	w := postJSON(t, newTestRouter(svc), "/api/v1/auth/refresh", RefreshRequest{RefreshToken: "reused"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, status.CodeRevoked, errorBody(t, w).Error.Code)
	cleared := cookieNamed(w, "accessToken")
	require.NotNil(t, cleared)
	assert.Equal(t, "", cleared.Value)
	assert.True(t, cleared.MaxAge < 0)
}

func TestHandleLogout(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Logout", mock.Anything, "access-1", testSession.Claims, "refresh-1").Return(nil)
	r := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("X-Test-Session", "yes")
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "refresh-1"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, status.StatusLogoutSuccess, resp.Code)
	assert.True(t, cookieNamed(w, "refreshToken").MaxAge < 0)
	svc.AssertExpectations(t)
}

func TestHandleLogout_WithoutSession(t *testing.T) {
	svc := new(mockAuthService)

	w := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, status.CodeNoToken, errorBody(t, w).Error.Code)
}
