package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/anonto42/threads-service/backend/internal/models"
	"github.com/anonto42/threads-service/backend/pkg/config"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:      "test-secret-key",
		JWTExpires:     time.Hour,
		CookieLifetime: 90 * 24 * time.Hour,
	}
}

// newJSONContext builds an echo context carrying the given JSON body.
func newJSONContext(t *testing.T, method, path string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body), "encoding request body")
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func httpErrorCode(t *testing.T, err error) (int, string) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %v", err)
	return he.Code, he.Message.(string)
}

func TestRegister(t *testing.T) {
	userRepo := newFakeUserRepo()
	h := NewAuthHandler(userRepo, &fakeUploader{}, testConfig())

	c, rec := newJSONContext(t, http.MethodPost, "/registration", models.RegisterRequest{
		Name:     "Alice Smith",
		Email:    "alice@example.com",
		Password: "secret1",
	})
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success bool        `json:"success"`
		Token   string      `json:"token"`
		User    models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Token)
	assert.Regexp(t, regexp.MustCompile(`^AliceSmith\d{1,6}$`), resp.User.UserName)

	// Token must also arrive as a cookie
	var found bool
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "token" && ck.Value == resp.Token && ck.HttpOnly {
			found = true
		}
	}
	assert.True(t, found, "expected an httpOnly token cookie")

	// Password must never be serialized
	assert.NotContains(t, rec.Body.String(), "secret1", "response leaks the raw password")
	assert.NotContains(t, rec.Body.String(), "password", "response leaks the password field")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	userRepo := newFakeUserRepo()
	h := NewAuthHandler(userRepo, &fakeUploader{}, testConfig())

	first, _ := newJSONContext(t, http.MethodPost, "/registration", models.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "secret1",
	})
	require.NoError(t, h.Register(first))

	second, _ := newJSONContext(t, http.MethodPost, "/registration", models.RegisterRequest{
		Name: "Imposter", Email: "alice@example.com", Password: "secret2",
	})
	code, msg := httpErrorCode(t, h.Register(second))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "This email already exists", msg)
}

func TestRegisterUploadsAvatar(t *testing.T) {
	userRepo := newFakeUserRepo()
	uploader := &fakeUploader{}
	h := NewAuthHandler(userRepo, uploader, testConfig())

	c, rec := newJSONContext(t, http.MethodPost, "/registration", models.RegisterRequest{
		Name: "Bob", Email: "bob@example.com", Password: "secret1", Avatar: "aGVsbG8=",
	})
	require.NoError(t, h.Register(c))
	assert.Equal(t, 1, uploader.uploads, "expected one avatar upload")

	var resp struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.User.Avatar, "expected a stored avatar reference")
	assert.NotEmpty(t, resp.User.Avatar.URL)
}

func TestLogin(t *testing.T) {
	userRepo := newFakeUserRepo()
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.DefaultCost)
	userRepo.CreateUser(nil, &models.User{
		Name: "Alice", Email: "alice@example.com", Password: string(hash),
	})
	h := NewAuthHandler(userRepo, &fakeUploader{}, testConfig())

	c, rec := newJSONContext(t, http.MethodPost, "/login", models.LoginRequest{
		Email: "alice@example.com", Password: "secret1",
	})
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	userRepo := newFakeUserRepo()
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.DefaultCost)
	userRepo.CreateUser(nil, &models.User{
		Name: "Alice", Email: "alice@example.com", Password: string(hash),
	})
	h := NewAuthHandler(userRepo, &fakeUploader{}, testConfig())

	wrongPassword, _ := newJSONContext(t, http.MethodPost, "/login", models.LoginRequest{
		Email: "alice@example.com", Password: "wrong",
	})
	_, msg1 := httpErrorCode(t, h.Login(wrongPassword))

	unknownEmail, _ := newJSONContext(t, http.MethodPost, "/login", models.LoginRequest{
		Email: "nobody@example.com", Password: "secret1",
	})
	_, msg2 := httpErrorCode(t, h.Login(unknownEmail))

	assert.Equal(t, msg1, msg2, "failure messages must match")
	assert.Equal(t, "Invalid email or password", msg1)
}

func TestLoginMissingCredentials(t *testing.T) {
	h := NewAuthHandler(newFakeUserRepo(), &fakeUploader{}, testConfig())

	c, _ := newJSONContext(t, http.MethodPost, "/login", models.LoginRequest{Email: "alice@example.com"})
	code, msg := httpErrorCode(t, h.Login(c))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Please enter email and password", msg)
}

func TestLogoutClearsCookie(t *testing.T) {
	h := NewAuthHandler(newFakeUserRepo(), &fakeUploader{}, testConfig())

	c, rec := newJSONContext(t, http.MethodGet, "/logout", nil)
	require.NoError(t, h.Logout(c))

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "token" {
			assert.Empty(t, ck.Value, "cookie value must be cleared")
			assert.False(t, ck.Expires.After(time.Now()), "cookie must be expired")
			return
		}
	}
	t.Error("no token cookie set")
}

func TestGenerateHandle(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^AliceInChains\d{1,6}$`), generateHandle("Alice In Chains"))
}
