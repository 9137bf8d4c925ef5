package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/fasttrack/internal/db"
	"gorm.io/gorm"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

var testAuthorizedEmails = []string{"owner@example.com", "other@example.com"}

type testClock struct {
	now time.Time
}

func (clock *testClock) advance(d time.Duration) {
	clock.now = clock.now.Add(d)
}

type testApp struct {
	app      *fiber.App
	handler  *Handler
	database *gorm.DB
	clock    *testClock
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppWithOptions(t, func(*Options) {})
}

func newTestAppWithOptions(t *testing.T, configure func(*Options)) *testApp {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "fasttrack-api-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	clock := &testClock{now: time.Date(2026, 4, 8, 12, 0, 0, 0, time.UTC)}
	options := Options{
		SecretKey:        testSecretKey,
		Location:         time.UTC,
		DevLogin:         true,
		AuthorizedEmails: testAuthorizedEmails,
		Now:              func() time.Time { return clock.now },
	}
	configure(&options)

	handler, err := NewHandler(database, options)
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return &testApp{app: app, handler: handler, database: database, clock: clock}
}

func (ta *testApp) do(t *testing.T, request *http.Request) *http.Response {
	t.Helper()

	response, err := ta.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", request.Method, request.URL.Path, err)
	}
	return response
}

func (ta *testApp) doJSON(t *testing.T, method string, path string, body any, authCookie string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		serialized, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(serialized)
	}
	request := httptest.NewRequest(method, path, reader)
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if authCookie != "" {
		request.Header.Set("Cookie", authCookieName+"="+authCookie)
	}
	return ta.do(t, request)
}

func (ta *testApp) doForm(t *testing.T, path string, values url.Values, authCookie string) *http.Response {
	t.Helper()

	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if authCookie != "" {
		request.Header.Set("Cookie", authCookieName+"="+authCookie)
	}
	return ta.do(t, request)
}

// signIn uses the development login and returns the auth cookie value.
func (ta *testApp) signIn(t *testing.T, email string) string {
	t.Helper()

	response := ta.doJSON(t, http.MethodPost, "/auth/dev-login", fiber.Map{"email": email}, "")
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected dev login to succeed, got %d: %s", response.StatusCode, readBody(t, response))
	}
	token := responseCookieValue(response.Cookies(), authCookieName)
	if token == "" {
		t.Fatal("expected auth cookie after dev login")
	}
	return token
}

func responseCookieValue(cookies []*http.Cookie, name string) string {
	if cookie := responseCookie(cookies, name); cookie != nil {
		return cookie.Value
	}
	return ""
}

func responseCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func readBody(t *testing.T, response *http.Response) string {
	t.Helper()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	return string(body)
}

func decodeJSON(t *testing.T, response *http.Response, dest any) {
	t.Helper()

	defer response.Body.Close()
	if err := json.NewDecoder(response.Body).Decode(dest); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

type apiErrorBody struct {
	Error string `json:"error"`
	Field string `json:"field"`
}

func readAPIError(t *testing.T, response *http.Response) apiErrorBody {
	t.Helper()

	payload := apiErrorBody{}
	decodeJSON(t, response, &payload)
	return payload
}

func assertStatus(t *testing.T, response *http.Response, want int) {
	t.Helper()

	if response.StatusCode != want {
		t.Fatalf("expected status %d, got %d", want, response.StatusCode)
	}
}
