package portals

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/louisbranch/hubbble/internal/services/web/modules/portals/combobox"
	"github.com/louisbranch/hubbble/internal/services/web/modules/portals/wizard"
	"github.com/louisbranch/hubbble/internal/services/web/platform/sessiongate"
	"github.com/louisbranch/hubbble/internal/services/web/storage"
)

// draftState is everything persisted between wizard requests.
type draftState struct {
	Wizard     wizard.Wizard  `json:"wizard"`
	Picker     combobox.State `json:"picker"`
	LoadFailed bool           `json:"load_failed,omitempty"`
}

func newDraftState(candidates []combobox.Candidate) draftState {
	return draftState{
		Wizard: wizard.New(),
		Picker: combobox.New(candidates, ""),
	}
}

type draftRepo struct {
	store storage.DraftStore
	ttl   time.Duration
	now   func() time.Time
}

func newDraftRepo(store storage.DraftStore, ttl time.Duration, now func() time.Time) draftRepo {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	if now == nil {
		now = time.Now
	}
	return draftRepo{store: store, ttl: ttl, now: now}
}

// load returns false when no usable draft exists. A payload that no longer
// decodes is discarded.
func (d draftRepo) load(ctx context.Context, sessionID string) (draftState, bool, error) {
	if d.store == nil {
		return draftState{}, false, storage.ErrNotConfigured
	}
	record, ok, err := d.store.LoadDraft(ctx, sessionID)
	if err != nil {
		return draftState{}, false, fmt.Errorf("load draft: %w", err)
	}
	if !ok {
		return draftState{}, false, nil
	}
	var state draftState
	if err := json.Unmarshal(record.Payload, &state); err != nil {
		log.Printf("discard undecodable draft err=%v", err)
		return draftState{}, false, nil
	}
	return state, true, nil
}

func (d draftRepo) save(ctx context.Context, sessionID string, state draftState) error {
	if d.store == nil {
		return storage.ErrNotConfigured
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	now := d.now().UTC()
	if err := d.store.SaveDraft(ctx, storage.Draft{
		SessionID: sessionID,
		Payload:   payload,
		UpdatedAt: now,
		ExpiresAt: now.Add(d.ttl),
	}); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (d draftRepo) delete(ctx context.Context, sessionID string) error {
	if d.store == nil {
		return storage.ErrNotConfigured
	}
	return d.store.DeleteDraft(ctx, sessionID)
}

// SessionEvents is the session gate's lifecycle feed.
type SessionEvents interface {
	Subscribe(fn func(sessiongate.Event)) (unsubscribe func())
}

// DropDraftsOnSignOut deletes a session's wizard draft when it signs out.
func DropDraftsOnSignOut(events SessionEvents, drafts storage.DraftStore) (unsubscribe func()) {
	if events == nil || drafts == nil {
		return func() {}
	}
	return events.Subscribe(func(event sessiongate.Event) {
		if event.Kind != sessiongate.EventSignedOut || event.SessionID == "" {
			return
		}
		if err := drafts.DeleteDraft(context.Background(), event.SessionID); err != nil {
			log.Printf("drop draft on sign-out failed err=%v", err)
		}
	})
}
