package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func pageRequest(path string, authCookie string) *http.Request {
	request := httptest.NewRequest(http.MethodGet, path, nil)
	if authCookie != "" {
		request.Header.Set("Cookie", authCookieName+"="+authCookie)
	}
	return request
}

func TestSignInPageShowsDevLogin(t *testing.T) {
	ta := newTestApp(t)

	response := ta.do(t, pageRequest("/auth/signin", ""))
	assertStatus(t, response, http.StatusOK)
	body := readBody(t, response)
	if !strings.Contains(body, `action="/auth/dev-login"`) {
		t.Fatal("expected dev login form on sign-in page")
	}
	if strings.Contains(body, "/auth/google") {
		t.Fatal("expected no Google button without a provider")
	}
}

func TestSignInPageRedirectsAuthenticatedUser(t *testing.T) {
	ta := newTestApp(t)
	token := ta.signIn(t, "owner@example.com")

	response := ta.do(t, pageRequest("/auth/signin", token))
	assertStatus(t, response, http.StatusSeeOther)
	if location := response.Header.Get("Location"); location != "/" {
		t.Fatalf("expected redirect to dashboard, got %q", location)
	}
}

func TestDashboardRendersActiveFastAndStats(t *testing.T) {
	ta := newTestApp(t)
	token := ta.signIn(t, "owner@example.com")

	empty := ta.do(t, pageRequest("/", token))
	assertStatus(t, empty, http.StatusOK)
	if body := readBody(t, empty); !strings.Contains(body, `action="/api/fasts/start"`) || !strings.Contains(body, "No completed fasts yet.") {
		t.Fatalf("expected start form and empty stats, got %s", body)
	}

	completeFast(t, ta, token, 16*time.Hour)
	active := startFast(t, ta, token, nil)
	ta.clock.advance(9 * time.Hour)

	response := ta.do(t, pageRequest("/", token))
	assertStatus(t, response, http.StatusOK)
	body := readBody(t, response)
	if !strings.Contains(body, "/api/fasts/"+active.ID+"/stop") {
		t.Fatal("expected stop form for the active fast")
	}
	if !strings.Contains(body, "Elapsed 9h 00m") {
		t.Fatalf("expected elapsed time, got %s", body)
	}
	if !strings.Contains(body, `<li class="reached">8h Blood Sugar Drops</li>`) {
		t.Fatal("expected reached milestone")
	}
}

func TestHistoryAndSettingsPagesRender(t *testing.T) {
	ta := newTestApp(t)
	token := ta.signIn(t, "owner@example.com")
	session := completeFast(t, ta, token, 16*time.Hour)

	history := ta.do(t, pageRequest("/history", token))
	assertStatus(t, history, http.StatusOK)
	if body := readBody(t, history); !strings.Contains(body, "session-"+session.ID) {
		t.Fatal("expected completed session row in history")
	}

	badCursor := ta.do(t, pageRequest("/history?cursor=missing", token))
	assertStatus(t, badCursor, http.StatusSeeOther)

	assertStatus(t, ta.doJSON(t, http.MethodPost, "/api/settings/theme", fiber.Map{"theme": "dark"}, token), http.StatusOK)
	settings := ta.do(t, pageRequest("/settings", token))
	assertStatus(t, settings, http.StatusOK)
	body := readBody(t, settings)
	if !strings.Contains(body, `data-theme="dark"`) || !strings.Contains(body, `value="dark" checked`) {
		t.Fatal("expected stored theme to be applied and selected")
	}
}

func TestPagesShowFlashOnce(t *testing.T) {
	ta := newTestApp(t)
	token := ta.signIn(t, "owner@example.com")

	form := ta.doForm(t, "/api/settings/theme", map[string][]string{"theme": {"neon"}}, token)
	assertStatus(t, form, http.StatusSeeOther)
	flash := responseCookieValue(form.Cookies(), flashCookieName)
	if flash == "" {
		t.Fatal("expected flash cookie")
	}

	request := pageRequest("/settings", "")
	request.Header.Set("Cookie", authCookieName+"="+token+"; "+flashCookieName+"="+flash)
	response := ta.do(t, request)
	assertStatus(t, response, http.StatusOK)
	if body := readBody(t, response); !strings.Contains(body, "Theme must be light, dark or system") {
		t.Fatal("expected flash error on settings page")
	}
	if cookie := responseCookie(response.Cookies(), flashCookieName); cookie == nil || cookie.Value != "" {
		t.Fatalf("expected flash cookie to be expired, got %#v", cookie)
	}
}

func TestNotFound(t *testing.T) {
	ta := newTestApp(t)

	api := ta.doJSON(t, http.MethodGet, "/api/unknown", nil, "")
	assertStatus(t, api, http.StatusNotFound)

	page := ta.do(t, pageRequest("/missing", ""))
	assertStatus(t, page, http.StatusNotFound)
	if body := readBody(t, page); !strings.Contains(body, `href="/auth/signin"`) {
		t.Fatal("expected sign-in link on not found page")
	}
}

func TestHealth(t *testing.T) {
	ta := newTestApp(t)

	response := ta.do(t, pageRequest("/healthz", ""))
	assertStatus(t, response, http.StatusOK)
	if body := readBody(t, response); !strings.Contains(body, `"status":"ok"`) {
		t.Fatalf("unexpected health body %q", body)
	}
}
