package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/hubbble/internal/platform/timeouts"
	"github.com/louisbranch/hubbble/internal/portalapi"
	"github.com/louisbranch/hubbble/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/hubbble/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/hubbble/internal/services/web/platform/sessiongate"
	"github.com/louisbranch/hubbble/internal/services/web/storage"
)

// Config defines the inputs for the web server.
type Config struct {
	HTTPAddr string
	// APIBaseURL is the portal API root. Empty starts the app degraded.
	APIBaseURL string
	APITimeout time.Duration

	// StorageBackend is one of memory, sqlite or redis.
	StorageBackend string
	SQLitePath     string
	RedisURL       string
	// PruneInterval spaces expired-row sweeps for stores that need them.
	PruneInterval time.Duration

	// CookieHashKey signs the session cookie. Empty generates a per-process
	// key, so sessions do not survive a restart.
	CookieHashKey  string
	CookieBlockKey string

	SessionRetention    time.Duration
	DraftTTL            time.Duration
	TrustForwardedProto bool
}

// Server hosts the web HTTP server.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	handler    *Handler
	store      storage.Store

	stopPrune context.CancelFunc
	pruneDone chan struct{}
	closeOnce sync.Once
}

// NewServer builds a configured web server.
func NewServer(ctx context.Context, config Config) (*Server, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	policy := requestmeta.SchemePolicy{TrustForwardedProto: config.TrustForwardedProto}

	cookies, err := newCookieCodec(config, policy)
	if err != nil {
		return nil, err
	}
	api, err := newPortalAPIClient(config)
	if err != nil {
		return nil, err
	}
	store, err := openStore(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("open web store: %w", err)
	}

	handler, err := NewHandler(HandlerConfig{
		Store:            store,
		Cookies:          cookies,
		PortalAPI:        api,
		SchemePolicy:     policy,
		SessionRetention: config.SessionRetention,
		DraftTTL:         config.DraftTTL,
	})
	if err != nil {
		if closeErr := store.Close(); closeErr != nil {
			log.Printf("close web store: %v", closeErr)
		}
		return nil, fmt.Errorf("build web handler: %w", err)
	}

	server := &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		handler: handler,
		store:   store,
	}
	if pruner, ok := store.(expiryPruner); ok {
		pruneCtx, cancel := context.WithCancel(context.Background())
		server.stopPrune = cancel
		server.pruneDone = make(chan struct{})
		go func() {
			defer close(server.pruneDone)
			runPruner(pruneCtx, pruner, config.PruneInterval)
		}()
	}
	return server, nil
}

// ListenAndServe serves HTTP until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("web listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close stops background sweeps and releases the store.
func (s *Server) Close() {
	if s == nil {
		return
	}
	s.closeOnce.Do(func() {
		if s.stopPrune != nil {
			s.stopPrune()
			<-s.pruneDone
		}
		s.handler.Close()
		if s.store != nil {
			if err := s.store.Close(); err != nil {
				log.Printf("close web store: %v", err)
			}
		}
	})
}

func newCookieCodec(config Config, policy requestmeta.SchemePolicy) (*sessioncookie.Codec, error) {
	hashKey := []byte(config.CookieHashKey)
	if len(hashKey) == 0 {
		log.Printf("session cookie hash key not set; generated a process-local key")
		hashKey = sessioncookie.GenerateKey()
	}
	maxAge := config.SessionRetention
	if maxAge == 0 {
		maxAge = sessiongate.DefaultRetention
	}
	codec, err := sessioncookie.New(sessioncookie.Options{
		HashKey:  hashKey,
		BlockKey: []byte(config.CookieBlockKey),
		MaxAge:   maxAge,
		Policy:   policy,
	})
	if err != nil {
		return nil, fmt.Errorf("session cookie: %w", err)
	}
	return codec, nil
}

// newPortalAPIClient returns nil without a base URL so modules report
// themselves degraded instead of calling a default host.
func newPortalAPIClient(config Config) (*portalapi.Client, error) {
	baseURL := strings.TrimSpace(config.APIBaseURL)
	if baseURL == "" {
		log.Printf("portal api base url not set; app modules start degraded")
		return nil, nil
	}
	timeout := config.APITimeout
	if timeout <= 0 {
		timeout = timeouts.APIRequest
	}
	client, err := portalapi.New(portalapi.Options{BaseURL: baseURL, Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("portal api client: %w", err)
	}
	return client, nil
}
