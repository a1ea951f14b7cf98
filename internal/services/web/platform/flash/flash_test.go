package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSetAndTakeRoundTrip(t *testing.T) {
	t.Parallel()

	var store Store
	setRec := httptest.NewRecorder()
	store.Set(setRec, httptest.NewRequest(http.MethodPost, "/logout", nil), Success("auth.logout.done"))
	cookies := setRec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(cookies[0])
	takeRec := httptest.NewRecorder()
	notice, ok := store.Take(takeRec, req)
	if !ok {
		t.Fatal("Take() ok = false, want true")
	}
	if notice != (Notice{Kind: KindSuccess, Key: "auth.logout.done"}) {
		t.Fatalf("notice = %+v", notice)
	}
	cleared := takeRec.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Fatalf("expected expiring cookie, got %+v", cleared)
	}
}

func TestTakeMalformedCookieStillClears(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "%%%"})
	rec := httptest.NewRecorder()
	if _, ok := (Store{}).Take(rec, req); ok {
		t.Fatal("Take() ok = true, want false")
	}
	if rec.Header().Get("Set-Cookie") == "" {
		t.Fatal("expected clearing Set-Cookie header")
	}
}

func TestSetDropsInvalidNotice(t *testing.T) {
	t.Parallel()

	for _, notice := range []Notice{
		{Kind: KindInfo},
		{Kind: "loud", Key: "auth.logout.done"},
	} {
		rec := httptest.NewRecorder()
		(Store{}).Set(rec, httptest.NewRequest(http.MethodGet, "/", nil), notice)
		if rec.Header().Get("Set-Cookie") != "" {
			t.Fatalf("Set(%+v) wrote a cookie", notice)
		}
	}
}

func TestTakeWithoutCookie(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	if _, ok := (Store{}).Take(rec, httptest.NewRequest(http.MethodGet, "/", nil)); ok {
		t.Fatal("Take() ok = true, want false")
	}
	if rec.Header().Get("Set-Cookie") != "" {
		t.Fatal("expected no Set-Cookie header")
	}
}
