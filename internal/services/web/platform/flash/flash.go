// Package flash carries a one-time notice across a redirect.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/louisbranch/hubbble/internal/services/web/platform/requestmeta"
)

// CookieName holds the pending notice.
const CookieName = "hb_flash"

// Kind selects notice styling.
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindError   Kind = "error"
)

// Notice is a localization key plus its styling.
type Notice struct {
	Kind Kind   `json:"kind"`
	Key  string `json:"key"`
}

// Success builds a success notice.
func Success(key string) Notice { return Notice{Kind: KindSuccess, Key: key} }

// Info builds an info notice.
func Info(key string) Notice { return Notice{Kind: KindInfo, Key: key} }

// Store reads and writes notices under one scheme policy.
type Store struct {
	Policy requestmeta.SchemePolicy
}

// Set queues notice for the next rendered page. Invalid notices are dropped.
func (s Store) Set(w http.ResponseWriter, r *http.Request, notice Notice) {
	if w == nil {
		return
	}
	notice, ok := normalize(notice)
	if !ok {
		return
	}
	payload, err := json.Marshal(notice)
	if err != nil {
		return
	}
	http.SetCookie(w, s.cookie(r, base64.RawURLEncoding.EncodeToString(payload), 0))
}

// Take returns the pending notice and expires it. A malformed cookie is
// expired too.
func (s Store) Take(w http.ResponseWriter, r *http.Request) (Notice, bool) {
	if r == nil {
		return Notice{}, false
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return Notice{}, false
	}
	if w != nil {
		http.SetCookie(w, s.cookie(r, "", -1))
	}
	return decode(cookie.Value)
}

func (s Store) cookie(r *http.Request, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.Policy.IsHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	}
}

func decode(raw string) (Notice, bool) {
	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(raw))
	if err != nil || len(decoded) == 0 {
		return Notice{}, false
	}
	var notice Notice
	if err := json.Unmarshal(decoded, &notice); err != nil {
		return Notice{}, false
	}
	return normalize(notice)
}

func normalize(notice Notice) (Notice, bool) {
	notice.Key = strings.TrimSpace(notice.Key)
	notice.Kind = Kind(strings.ToLower(strings.TrimSpace(string(notice.Kind))))
	if notice.Key == "" {
		return Notice{}, false
	}
	switch notice.Kind {
	case KindSuccess, KindInfo, KindError:
		return notice, true
	default:
		return Notice{}, false
	}
}
