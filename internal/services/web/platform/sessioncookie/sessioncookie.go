// Package sessioncookie centralizes web session cookie behavior. The cookie
// carries only an opaque session id, signed (and optionally encrypted) with
// gorilla/securecookie.
package sessioncookie

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/louisbranch/hubbble/internal/services/web/platform/requestmeta"
)

// Name is the canonical web session cookie name.
const Name = "web_session"

// MinHashKeyLength is the shortest accepted signing key.
const MinHashKeyLength = 32

// Codec signs session ids into cookie values.
type Codec struct {
	sc     *securecookie.SecureCookie
	policy requestmeta.SchemePolicy
	maxAge int
}

// Options configures a Codec.
type Options struct {
	HashKey  []byte
	BlockKey []byte
	MaxAge   time.Duration
	Policy   requestmeta.SchemePolicy
}

// New builds a codec. HashKey is required; BlockKey enables encryption and
// must be 16, 24 or 32 bytes when set.
func New(opts Options) (*Codec, error) {
	if len(opts.HashKey) < MinHashKeyLength {
		return nil, fmt.Errorf("session hash key must be at least %d bytes", MinHashKeyLength)
	}
	var blockKey []byte
	if len(opts.BlockKey) > 0 {
		switch len(opts.BlockKey) {
		case 16, 24, 32:
			blockKey = opts.BlockKey
		default:
			return nil, fmt.Errorf("session block key must be 16, 24 or 32 bytes")
		}
	}
	maxAge := int(opts.MaxAge / time.Second)
	if maxAge < 0 {
		maxAge = 0
	}
	sc := securecookie.New(opts.HashKey, blockKey)
	sc.SetSerializer(securecookie.JSONEncoder{})
	sc.MaxAge(maxAge)
	return &Codec{sc: sc, policy: opts.Policy, maxAge: maxAge}, nil
}

// GenerateKey returns a random key for development setups without
// configured secrets.
func GenerateKey() []byte {
	return securecookie.GenerateRandomKey(MinHashKeyLength)
}

// Present reports whether the request carries a non-empty session cookie,
// valid or not.
func Present(r *http.Request) bool {
	if r == nil {
		return false
	}
	cookie, err := r.Cookie(Name)
	return err == nil && cookie != nil && strings.TrimSpace(cookie.Value) != ""
}

// Read returns the session id from a valid session cookie.
func (c *Codec) Read(r *http.Request) (string, bool) {
	if c == nil || r == nil {
		return "", false
	}
	cookie, err := r.Cookie(Name)
	if err != nil || cookie == nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	if value == "" {
		return "", false
	}
	var sessionID string
	if err := c.sc.Decode(Name, value, &sessionID); err != nil {
		return "", false
	}
	sessionID = strings.TrimSpace(sessionID)
	return sessionID, sessionID != ""
}

// Write sets the signed session cookie.
func (c *Codec) Write(w http.ResponseWriter, r *http.Request, sessionID string) error {
	if c == nil || w == nil {
		return nil
	}
	encoded, err := c.sc.Encode(Name, strings.TrimSpace(sessionID))
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    encoded,
		Path:     "/",
		MaxAge:   c.maxAge,
		HttpOnly: true,
		Secure:   c.policy.IsHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie.
func (c *Codec) Clear(w http.ResponseWriter, r *http.Request) {
	if w == nil {
		return
	}
	var policy requestmeta.SchemePolicy
	if c != nil {
		policy = c.policy
	}
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   policy.IsHTTPS(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
