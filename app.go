package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"reflect"
	"sync"
	"time"

	"slidesmith/agent"
	"slidesmith/catalog"
	"slidesmith/config"
	"slidesmith/database"
	"slidesmith/document"
	"slidesmith/export"
	"slidesmith/logger"
)

// App wires the editing sessions, generation services and persistence
// together behind one facade. Handlers call App methods only.
type App struct {
	ctx           context.Context
	registry      *ServiceRegistry
	configService *ConfigService
	logger        *logger.Logger

	db          *sql.DB
	deckService *database.DeckService
	credService *database.CredentialService

	// cfgMu guards the fields rebuilt when the user saves new settings;
	// request goroutines read them through config/outline/images.
	cfgMu          sync.RWMutex
	cfg            config.Config
	outlineService *agent.OutlineService
	imageService   *agent.ImageService

	rateLimiter *agent.RateLimiter
	pptService  *export.PPTService

	hub *Hub

	sessions  map[string]*editSession
	sessionMu sync.RWMutex
}

// editSession is one live editing session: an id and its deck store.
type editSession struct {
	id    string
	store *document.Store
}

// NewApp creates a new App instance
func NewApp() *App {
	return &App{
		logger:   logger.NewLogger(),
		sessions: make(map[string]*editSession),
		hub:      NewHub(),
	}
}

// Log writes to the application log file (safe before startup).
func (a *App) Log(message string) {
	a.logger.Log(message)
}

// startup loads config, opens the database and builds the services.
func (a *App) startup(ctx context.Context) error {
	a.ctx = ctx
	a.registry = NewServiceRegistry(ctx, a.Log)

	a.configService = NewConfigService(a.Log)
	if err := a.registry.RegisterCritical(a.configService); err != nil {
		return err
	}
	if err := a.registry.InitializeAll(); err != nil {
		return err
	}

	cfg, err := a.configService.GetConfig()
	if err != nil {
		return WrapError("app", "startup", err)
	}
	if addr := os.Getenv("SLIDESMITH_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}
	if dir := os.Getenv("SLIDESMITH_DATA_DIR"); dir != "" {
		cfg.DataCacheDir = dir
	}
	a.cfg = cfg

	if cfg.DetailedLog {
		if err := a.logger.Init(cfg.DataCacheDir); err != nil {
			// degrade to in-memory logging only
			fmt.Println("Failed to initialize file logger:", err)
		}
	}

	db, err := database.InitDB(cfg.DataCacheDir)
	if err != nil {
		return WrapError("app", "startup", err)
	}
	a.db = db
	a.deckService = database.NewDeckService(db)
	a.credService = database.NewCredentialService(db)

	a.outlineService = agent.NewOutlineService(cfg, a.Log)
	a.imageService = agent.NewImageService(cfg.ImageEndpoint, a.Log)
	a.rateLimiter = agent.NewRateLimiter(
		time.Duration(cfg.RateLimit.MinIntervalSeconds)*time.Second,
		cfg.RateLimit.Burst,
		time.Duration(cfg.RateLimit.TTLMinutes)*time.Minute,
	)
	a.pptService = export.NewPPTService(a.Log)

	// Rebuild LLM-backed services when the user saves new settings
	a.configService.OnConfigChanged(a.applyConfig)

	a.Log("Application started")
	return nil
}

// applyConfig swaps the active configuration and the services built from it.
func (a *App) applyConfig(next config.Config) {
	a.cfgMu.Lock()
	a.cfg = next
	a.outlineService = agent.NewOutlineService(next, a.Log)
	a.imageService = agent.NewImageService(next.ImageEndpoint, a.Log)
	a.cfgMu.Unlock()
}

// config returns the active configuration.
func (a *App) config() config.Config {
	a.cfgMu.RLock()
	defer a.cfgMu.RUnlock()
	return a.cfg
}

func (a *App) outline() *agent.OutlineService {
	a.cfgMu.RLock()
	defer a.cfgMu.RUnlock()
	return a.outlineService
}

func (a *App) images() *agent.ImageService {
	a.cfgMu.RLock()
	defer a.cfgMu.RUnlock()
	return a.imageService
}

// shutdown closes services in reverse order of startup.
func (a *App) shutdown() {
	if a.registry != nil {
		a.registry.ShutdownAll()
	}
	if a.db != nil {
		a.db.Close()
	}
	a.Log("Application stopped")
	a.logger.Close()
}

// ErrSessionNotFound reports an unknown editing session id.
var ErrSessionNotFound = errors.New("session not found")

// CreateSession starts a new editing session seeded with a single blank
// title slide and returns its id.
func (a *App) CreateSession() (string, document.Deck) {
	id := document.NewID()
	deck := document.Deck{newSlideFromLayout(catalog.ResolveLayout("title"), catalog.Themes[0].ID)}

	store := document.NewStore(deck, a.Log)
	store.SetListener(func(d document.Deck) {
		a.hub.BroadcastDeck(id, d)
	})

	a.sessionMu.Lock()
	a.sessions[id] = &editSession{id: id, store: store}
	a.sessionMu.Unlock()

	a.Log(fmt.Sprintf("Session %s created", id))
	return id, deck
}

// CloseSession drops a session and its history.
func (a *App) CloseSession(id string) {
	a.sessionMu.Lock()
	delete(a.sessions, id)
	a.sessionMu.Unlock()
	a.hub.CloseSession(id)
}

func (a *App) session(id string) (*editSession, error) {
	a.sessionMu.RLock()
	s, ok := a.sessions[id]
	a.sessionMu.RUnlock()
	if !ok {
		return nil, WrapError("app", "session", fmt.Errorf("%w: %s", ErrSessionNotFound, id))
	}
	return s, nil
}

// GetDeck returns the session's current deck snapshot.
func (a *App) GetDeck(sessionID string) (document.Deck, error) {
	s, err := a.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.store.Snapshot(), nil
}

// CommitDeck records a full replacement snapshot as an undo step.
func (a *App) CommitDeck(sessionID string, deck document.Deck) error {
	s, err := a.session(sessionID)
	if err != nil {
		return err
	}
	s.store.Commit(deck)
	return nil
}

// TransientDeck replaces the snapshot without an undo step. Used for
// per-keystroke and drag updates between commits.
func (a *App) TransientDeck(sessionID string, deck document.Deck) error {
	s, err := a.session(sessionID)
	if err != nil {
		return err
	}
	s.store.TransientUpdate(deck)
	return nil
}

// Undo steps the session back one snapshot.
func (a *App) Undo(sessionID string) (document.Deck, error) {
	s, err := a.session(sessionID)
	if err != nil {
		return nil, err
	}
	s.store.Undo()
	return s.store.Snapshot(), nil
}

// Redo steps the session forward one snapshot.
func (a *App) Redo(sessionID string) (document.Deck, error) {
	s, err := a.session(sessionID)
	if err != nil {
		return nil, err
	}
	s.store.Redo()
	return s.store.Snapshot(), nil
}

// HistoryState reports whether undo and redo are currently possible.
func (a *App) HistoryState(sessionID string) (canUndo, canRedo bool, err error) {
	s, err := a.session(sessionID)
	if err != nil {
		return false, false, err
	}
	return s.store.CanUndo(), s.store.CanRedo(), nil
}

// AddSlide appends a slide built from the given layout's slots.
func (a *App) AddSlide(sessionID, layoutID string) (document.Deck, error) {
	s, err := a.session(sessionID)
	if err != nil {
		return nil, err
	}
	layout := catalog.ResolveLayout(layoutID)
	s.store.CommitFn(func(prev document.Deck) document.Deck {
		themeID := catalog.Themes[0].ID
		if len(prev) > 0 {
			themeID = prev[0].ThemeID
		}
		next := prev.Clone()
		return append(next, newSlideFromLayout(layout, themeID))
	})
	return s.store.Snapshot(), nil
}

// DeleteSlide removes a slide by id. Deleting the sole remaining slide is
// refused so the deck never empties and no content is lost.
func (a *App) DeleteSlide(sessionID, slideID string) (document.Deck, error) {
	s, err := a.session(sessionID)
	if err != nil {
		return nil, err
	}
	s.store.CommitFn(func(prev document.Deck) document.Deck {
		if len(prev) <= 1 {
			return prev
		}
		next := make(document.Deck, 0, len(prev))
		for _, sl := range prev {
			if sl.ID != slideID {
				next = append(next, sl.Clone())
			}
		}
		return next
	})
	return s.store.Snapshot(), nil
}

// AddElement appends an element to a slide.
func (a *App) AddElement(sessionID, slideID string, el document.Element) (document.Deck, error) {
	s, err := a.session(sessionID)
	if err != nil {
		return nil, err
	}
	if el.ID == "" {
		el.ID = string(el.Kind) + "-" + document.NewID()
	}
	s.store.CommitFn(func(prev document.Deck) document.Deck {
		next := prev.Clone()
		if sl := next.FindSlide(slideID); sl != nil {
			sl.Elements = append(sl.Elements, el.Clone())
		}
		return next
	})
	return s.store.Snapshot(), nil
}

// UpdateElement replaces an element by id within a slide. Content-only edits
// (typing) replace the current snapshot in place so a whole editing burst is
// one undo step; geometry and style changes commit a new history entry.
func (a *App) UpdateElement(sessionID, slideID string, el document.Element) (document.Deck, error) {
	s, err := a.session(sessionID)
	if err != nil {
		return nil, err
	}
	apply := func(prev document.Deck) document.Deck {
		next := prev.Clone()
		if sl := next.FindSlide(slideID); sl != nil {
			for i := range sl.Elements {
				if sl.Elements[i].ID == el.ID {
					sl.Elements[i] = el.Clone()
					break
				}
			}
		}
		return next
	}
	if contentOnlyChange(s.store.Snapshot(), slideID, el) {
		s.store.TransientUpdateFn(apply)
	} else {
		s.store.CommitFn(apply)
	}
	return s.store.Snapshot(), nil
}

// contentOnlyChange reports whether el differs from its current version in
// Content alone.
func contentOnlyChange(deck document.Deck, slideID string, el document.Element) bool {
	sl := deck.FindSlide(slideID)
	if sl == nil {
		return false
	}
	cur := sl.FindElement(el.ID)
	if cur == nil {
		return false
	}
	prev := cur.Clone()
	prev.Content = el.Content
	return reflect.DeepEqual(prev, el)
}

// DeleteElement removes an element by id from a slide.
func (a *App) DeleteElement(sessionID, slideID, elementID string) (document.Deck, error) {
	s, err := a.session(sessionID)
	if err != nil {
		return nil, err
	}
	s.store.CommitFn(func(prev document.Deck) document.Deck {
		next := prev.Clone()
		if sl := next.FindSlide(slideID); sl != nil {
			kept := sl.Elements[:0]
			for _, e := range sl.Elements {
				if e.ID != elementID {
					kept = append(kept, e)
				}
			}
			sl.Elements = kept
		}
		return next
	})
	return s.store.Snapshot(), nil
}

// ApplyTheme sets the theme on every slide in the deck. Unknown theme ids
// resolve to the default theme.
func (a *App) ApplyTheme(sessionID, themeID string) (document.Deck, error) {
	s, err := a.session(sessionID)
	if err != nil {
		return nil, err
	}
	theme := catalog.ResolveTheme(themeID)
	s.store.CommitFn(func(prev document.Deck) document.Deck {
		next := prev.Clone()
		for i := range next {
			next[i].ThemeID = theme.ID
		}
		return next
	})
	a.Log(fmt.Sprintf("Session %s: theme %s applied", sessionID, theme.ID))
	return s.store.Snapshot(), nil
}

// ApplyLayout reconciles one slide's elements onto a new layout and kicks
// off asynchronous generation for any image slots that came up empty.
func (a *App) ApplyLayout(sessionID, slideID, layoutID, userID string) (document.Deck, error) {
	s, err := a.session(sessionID)
	if err != nil {
		return nil, err
	}
	layout := catalog.ResolveLayout(layoutID)

	var fills []document.ImageFill
	s.store.CommitFn(func(prev document.Deck) document.Deck {
		next := prev.Clone()
		sl := next.FindSlide(slideID)
		if sl == nil {
			return next
		}
		elements, pending := document.ReconcileLayout(*sl, layout)
		sl.Elements = elements
		sl.LayoutID = layout.ID
		fills = pending
		return next
	})

	if len(fills) > 0 {
		pending := make([]pendingImage, 0, len(fills))
		for _, f := range fills {
			pending = append(pending, pendingImage{SlideID: slideID, ElementID: f.ElementID, Prompt: f.Prompt})
		}
		token := a.resolveImageToken(userID, "")
		go a.fillImages(context.Background(), s, pending, token)
	}
	return s.store.Snapshot(), nil
}

// newSlideFromLayout builds a fresh slide whose elements are the layout's
// slot defaults. Image slots start as empty placeholders.
func newSlideFromLayout(layout catalog.Layout, themeID string) document.Slide {
	slide := document.Slide{
		ID:       document.NewID(),
		ThemeID:  themeID,
		LayoutID: layout.ID,
	}
	for i, slot := range layout.Slots {
		var el document.Element
		switch slot.Kind {
		case catalog.SlotImage:
			el = document.NewImageElement("image-"+document.NewID(), "", slot.X, slot.Y, slot.W, slot.H)
		default:
			prefix := "content-"
			if i == 0 {
				prefix = "title-"
			}
			el = document.NewTextElement(prefix+document.NewID(), slot.Content, slot.X, slot.Y, slot.W, slot.H)
			for k, v := range slot.Style {
				el.Style[k] = v
			}
		}
		slide.Elements = append(slide.Elements, el)
	}
	return slide
}

// resolveLLMKey picks the LLM API key: request override, then the user's
// stored credential, then the server-wide config fallback.
func (a *App) resolveLLMKey(userID, override string) string {
	if override != "" {
		return override
	}
	if userID != "" && a.credService != nil {
		creds, err := a.credService.GetCredentials(userID)
		if err == nil && creds.LLMAPIKey != "" {
			return creds.LLMAPIKey
		}
	}
	return a.config().APIKey
}

// resolveImageToken picks the image API token with the same precedence as
// resolveLLMKey.
func (a *App) resolveImageToken(userID, override string) string {
	if override != "" {
		return override
	}
	if userID != "" && a.credService != nil {
		creds, err := a.credService.GetCredentials(userID)
		if err == nil && creds.ImageToken != "" {
			return creds.ImageToken
		}
	}
	return a.config().ImageToken
}

// SaveCredentials stores a user's API keys.
func (a *App) SaveCredentials(userID string, creds database.Credentials) error {
	return WrapError("app", "SaveCredentials", a.credService.SaveCredentials(userID, creds))
}

// GetCredentialStatus reports which credentials a user has stored without
// revealing the values.
func (a *App) GetCredentialStatus(userID string) (hasLLMKey, hasImageToken bool, err error) {
	creds, err := a.credService.GetCredentials(userID)
	if errors.Is(err, database.ErrCredentialsNotFound) {
		return false, false, nil
	}
	if err != nil {
		return false, false, WrapError("app", "GetCredentialStatus", err)
	}
	return creds.LLMAPIKey != "", creds.ImageToken != "", nil
}

// SaveDeck persists a session's current deck under the given id and title.
func (a *App) SaveDeck(sessionID, deckID, userID, title string) error {
	s, err := a.session(sessionID)
	if err != nil {
		return err
	}
	if deckID == "" {
		deckID = document.NewID()
	}
	rec := database.DeckRecord{ID: deckID, UserID: userID, Title: title, Deck: s.store.Snapshot()}
	return WrapError("app", "SaveDeck", a.deckService.SaveDeck(rec))
}

// LoadDeck loads a saved deck into the session as a committed snapshot.
func (a *App) LoadDeck(sessionID, deckID string) (document.Deck, error) {
	s, err := a.session(sessionID)
	if err != nil {
		return nil, err
	}
	rec, err := a.deckService.LoadDeck(deckID)
	if err != nil {
		return nil, WrapError("app", "LoadDeck", err)
	}
	s.store.Commit(rec.Deck)
	return s.store.Snapshot(), nil
}

// ListDecks lists a user's saved decks.
func (a *App) ListDecks(userID string) ([]database.DeckRecord, error) {
	recs, err := a.deckService.ListDecks(userID)
	return recs, WrapError("app", "ListDecks", err)
}

// DeleteDeck removes a saved deck.
func (a *App) DeleteDeck(deckID string) error {
	return WrapError("app", "DeleteDeck", a.deckService.DeleteDeck(deckID))
}
