package web

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/louisbranch/hubbble/internal/platform/otel"
	"github.com/louisbranch/hubbble/internal/portalapi"
	"github.com/louisbranch/hubbble/internal/services/web/app"
	module "github.com/louisbranch/hubbble/internal/services/web/module"
	"github.com/louisbranch/hubbble/internal/services/web/modules"
	"github.com/louisbranch/hubbble/internal/services/web/modules/portals"
	"github.com/louisbranch/hubbble/internal/services/web/platform/flash"
	"github.com/louisbranch/hubbble/internal/services/web/platform/httpx"
	"github.com/louisbranch/hubbble/internal/services/web/platform/observability"
	"github.com/louisbranch/hubbble/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/hubbble/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/hubbble/internal/services/web/platform/sessiongate"
	"github.com/louisbranch/hubbble/internal/services/web/routepath"
	"github.com/louisbranch/hubbble/internal/services/web/static"
	"github.com/louisbranch/hubbble/internal/services/web/storage"
)

// HandlerConfig carries the collaborators the root handler is built from.
type HandlerConfig struct {
	Store   storage.Store
	Cookies *sessioncookie.Codec
	// PortalAPI may be nil; the app modules then start degraded.
	PortalAPI        *portalapi.Client
	SchemePolicy     requestmeta.SchemePolicy
	SessionRetention time.Duration
	DraftTTL         time.Duration
	Logger           *log.Logger
	Now              func() time.Time
}

// Handler is the composed root handler.
type Handler struct {
	root        http.Handler
	unsubscribe func()
}

// NewHandler assembles the web routes and middleware.
func NewHandler(cfg HandlerConfig) (*Handler, error) {
	if cfg.Store == nil {
		return nil, errors.New("web store is required")
	}
	if cfg.Cookies == nil {
		return nil, errors.New("session cookie codec is required")
	}

	gate := sessiongate.New(sessiongate.Config{
		Store:     cfg.Store,
		Cookies:   cfg.Cookies,
		Retention: cfg.SessionRetention,
		Now:       cfg.Now,
	})

	moduleDeps := modules.Dependencies{
		Module: module.Dependencies{
			ResolveViewer:      viewerResolver(gate),
			ResolveSignedIn:    gate.IsAuthenticated,
			HandleUnauthorized: gate.HandleUnauthorized,
			Flash:              flash.Store{Policy: cfg.SchemePolicy},
		},
		PortalAPI: cfg.PortalAPI,
		Sessions:  gate,
		Drafts:    cfg.Store,
		DraftTTL:  cfg.DraftTTL,
		SessionID: sessionIDResolver(gate),
	}
	composed, err := app.Compose(app.ComposeInput{
		RequireAuth:         gate.RequireAuth,
		PublicModules:       modules.DefaultPublicModules(moduleDeps),
		ProtectedModules:    modules.DefaultProtectedModules(moduleDeps),
		RequestSchemePolicy: cfg.SchemePolicy,
	})
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle(http.MethodGet+" "+routepath.StaticPrefix, http.StripPrefix(routepath.StaticPrefix, http.FileServerFS(static.FS)))
	mux.Handle(routepath.Root, composed)

	root := httpx.Chain(mux,
		httpx.RecoverPanic(),
		httpx.RequestID(),
		observability.RequestLogger(cfg.Logger),
		gate.WithRequestState(),
	)
	return &Handler{
		root:        otel.WrapHandler(root, "web"),
		unsubscribe: portals.DropDraftsOnSignOut(gate, cfg.Store),
	}, nil
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.root.ServeHTTP(w, r)
}

// Close detaches the draft cleanup subscription.
func (h *Handler) Close() {
	if h == nil || h.unsubscribe == nil {
		return
	}
	h.unsubscribe()
}

func viewerResolver(gate *sessiongate.Gate) module.ResolveViewer {
	return func(r *http.Request) module.Viewer {
		session, ok := gate.Get(r)
		if !ok {
			return module.Viewer{}
		}
		return module.Viewer{
			DisplayName: session.DisplayName,
			Email:       session.Email,
			SignedIn:    true,
		}
	}
}

func sessionIDResolver(gate *sessiongate.Gate) portals.SessionIDResolver {
	return func(r *http.Request) (string, bool) {
		session, ok := gate.Get(r)
		if !ok || session.ID == "" {
			return "", false
		}
		return session.ID, true
	}
}
