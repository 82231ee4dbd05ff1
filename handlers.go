package main

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"slidesmith/agent"
	"slidesmith/catalog"
	"slidesmith/database"
	"slidesmith/document"
)

// Handlers exposes the App facade over HTTP.
type Handlers struct {
	app      *App
	upgrader websocket.Upgrader
}

// NewHandlers creates the HTTP handler set.
func NewHandlers(app *App) *Handlers {
	return &Handlers{
		app: app,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// SetupRoutes builds the router.
func (h *Handlers) SetupRoutes() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/sessions", h.CreateSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", h.CloseSession).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/deck", h.GetDeck).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/deck", h.CommitDeck).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{id}/deck/transient", h.TransientDeck).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{id}/undo", h.Undo).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/redo", h.Redo).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/slides", h.AddSlide).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/slides/{slideId}", h.DeleteSlide).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/slides/{slideId}/layout", h.ApplyLayout).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/slides/{slideId}/elements", h.AddElement).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/slides/{slideId}/elements/{elementId}", h.UpdateElement).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{id}/slides/{slideId}/elements/{elementId}", h.DeleteElement).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/theme", h.ApplyTheme).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/generate", h.Generate).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/export", h.Export).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/save", h.SaveDeck).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/load/{deckId}", h.LoadDeck).Methods(http.MethodPost)

	api.HandleFunc("/decks", h.ListDecks).Methods(http.MethodGet)
	api.HandleFunc("/decks/{deckId}", h.DeleteDeck).Methods(http.MethodDelete)

	api.HandleFunc("/credentials", h.SaveCredentials).Methods(http.MethodPost)
	api.HandleFunc("/credentials", h.GetCredentialStatus).Methods(http.MethodGet)

	api.HandleFunc("/catalog/themes", h.ListThemes).Methods(http.MethodGet)
	api.HandleFunc("/catalog/layouts", h.ListLayouts).Methods(http.MethodGet)

	r.HandleFunc("/ws/sessions/{id}", h.WatchSession)

	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps App errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, agent.ErrCredentialMissing):
		status = http.StatusUnauthorized
	case errors.Is(err, agent.ErrUpstreamGeneration):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// callerID identifies the requester for rate limiting: the user header
// when present, the remote IP otherwise.
func callerID(r *http.Request) string {
	if uid := r.Header.Get("X-User-ID"); uid != "" {
		return uid
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// CreateSessionResponse is the response to session creation.
type CreateSessionResponse struct {
	SessionID string        `json:"sessionId"`
	Deck      document.Deck `json:"deck"`
}

// CreateSession starts a new editing session
// POST /api/sessions
func (h *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	id, deck := h.app.CreateSession()
	writeJSON(w, http.StatusCreated, CreateSessionResponse{SessionID: id, Deck: deck})
}

// CloseSession ends an editing session
// DELETE /api/sessions/{id}
func (h *Handlers) CloseSession(w http.ResponseWriter, r *http.Request) {
	h.app.CloseSession(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

// DeckResponse carries a deck snapshot plus undo/redo availability.
type DeckResponse struct {
	Deck    document.Deck `json:"deck"`
	CanUndo bool          `json:"canUndo"`
	CanRedo bool          `json:"canRedo"`
}

func (h *Handlers) deckResponse(w http.ResponseWriter, sessionID string, deck document.Deck) {
	canUndo, canRedo, err := h.app.HistoryState(sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DeckResponse{Deck: deck, CanUndo: canUndo, CanRedo: canRedo})
}

// GetDeck returns the current deck snapshot
// GET /api/sessions/{id}/deck
func (h *Handlers) GetDeck(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	deck, err := h.app.GetDeck(id)
	if err != nil {
		writeError(w, err)
		return
	}
	h.deckResponse(w, id, deck)
}

// CommitDeck records a replacement snapshot as an undo step
// PUT /api/sessions/{id}/deck
func (h *Handlers) CommitDeck(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var deck document.Deck
	if err := json.NewDecoder(r.Body).Decode(&deck); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.app.CommitDeck(id, deck); err != nil {
		writeError(w, err)
		return
	}
	h.deckResponse(w, id, deck)
}

// TransientDeck replaces the snapshot without an undo step
// PUT /api/sessions/{id}/deck/transient
func (h *Handlers) TransientDeck(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var deck document.Deck
	if err := json.NewDecoder(r.Body).Decode(&deck); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.app.TransientDeck(id, deck); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Undo steps the session back one snapshot
// POST /api/sessions/{id}/undo
func (h *Handlers) Undo(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	deck, err := h.app.Undo(id)
	if err != nil {
		writeError(w, err)
		return
	}
	h.deckResponse(w, id, deck)
}

// Redo steps the session forward one snapshot
// POST /api/sessions/{id}/redo
func (h *Handlers) Redo(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	deck, err := h.app.Redo(id)
	if err != nil {
		writeError(w, err)
		return
	}
	h.deckResponse(w, id, deck)
}

// AddSlideRequest selects the layout for a new slide.
type AddSlideRequest struct {
	LayoutID string `json:"layoutId"`
}

// AddSlide appends a slide built from a layout
// POST /api/sessions/{id}/slides
func (h *Handlers) AddSlide(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req AddSlideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	deck, err := h.app.AddSlide(id, req.LayoutID)
	if err != nil {
		writeError(w, err)
		return
	}
	h.deckResponse(w, id, deck)
}

// DeleteSlide removes a slide
// DELETE /api/sessions/{id}/slides/{slideId}
func (h *Handlers) DeleteSlide(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	deck, err := h.app.DeleteSlide(vars["id"], vars["slideId"])
	if err != nil {
		writeError(w, err)
		return
	}
	h.deckResponse(w, vars["id"], deck)
}

// ApplyLayoutRequest selects the layout to reconcile a slide onto.
type ApplyLayoutRequest struct {
	LayoutID string `json:"layoutId"`
}

// ApplyLayout reconciles a slide's elements onto a new layout
// POST /api/sessions/{id}/slides/{slideId}/layout
func (h *Handlers) ApplyLayout(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var req ApplyLayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	deck, err := h.app.ApplyLayout(vars["id"], vars["slideId"], req.LayoutID, r.Header.Get("X-User-ID"))
	if err != nil {
		writeError(w, err)
		return
	}
	h.deckResponse(w, vars["id"], deck)
}

// AddElement appends an element to a slide
// POST /api/sessions/{id}/slides/{slideId}/elements
func (h *Handlers) AddElement(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var el document.Element
	if err := json.NewDecoder(r.Body).Decode(&el); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	deck, err := h.app.AddElement(vars["id"], vars["slideId"], el)
	if err != nil {
		writeError(w, err)
		return
	}
	h.deckResponse(w, vars["id"], deck)
}

// UpdateElement replaces an element by id
// PUT /api/sessions/{id}/slides/{slideId}/elements/{elementId}
func (h *Handlers) UpdateElement(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var el document.Element
	if err := json.NewDecoder(r.Body).Decode(&el); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	el.ID = vars["elementId"]
	deck, err := h.app.UpdateElement(vars["id"], vars["slideId"], el)
	if err != nil {
		writeError(w, err)
		return
	}
	h.deckResponse(w, vars["id"], deck)
}

// DeleteElement removes an element from a slide
// DELETE /api/sessions/{id}/slides/{slideId}/elements/{elementId}
func (h *Handlers) DeleteElement(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	deck, err := h.app.DeleteElement(vars["id"], vars["slideId"], vars["elementId"])
	if err != nil {
		writeError(w, err)
		return
	}
	h.deckResponse(w, vars["id"], deck)
}

// ApplyThemeRequest selects the deck-wide theme.
type ApplyThemeRequest struct {
	ThemeID string `json:"themeId"`
}

// ApplyTheme sets the theme on every slide
// POST /api/sessions/{id}/theme
func (h *Handlers) ApplyTheme(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req ApplyThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	deck, err := h.app.ApplyTheme(id, req.ThemeID)
	if err != nil {
		writeError(w, err)
		return
	}
	h.deckResponse(w, id, deck)
}

// GenerateDeckRequest are the generation inputs taken from the client.
type GenerateDeckRequest struct {
	Topic      string `json:"topic"`
	SlideCount int    `json:"slideCount"`
	APIKey     string `json:"apiKey,omitempty"`
	ImageToken string `json:"imageToken,omitempty"`
}

// Generate builds a deck from an LLM outline
// POST /api/sessions/{id}/generate
func (h *Handlers) Generate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	caller := callerID(r)
	if !h.app.rateLimiter.Allow(caller) {
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded, try again shortly"})
		return
	}

	var req GenerateDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Topic == "" {
		http.Error(w, "topic is required", http.StatusBadRequest)
		return
	}

	deck, err := h.app.GenerateDeck(r.Context(), id, GenerateRequest{
		Topic:      req.Topic,
		SlideCount: req.SlideCount,
		UserID:     r.Header.Get("X-User-ID"),
		APIKey:     req.APIKey,
		ImageToken: req.ImageToken,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	h.deckResponse(w, id, deck)
}

// Export streams the deck as a PowerPoint file
// GET /api/sessions/{id}/export?title=...
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	title := r.URL.Query().Get("title")

	data, filename, err := h.app.ExportPPTX(id, title)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.presentationml.presentation")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write(data)
}

// SaveDeckRequest names a saved deck.
type SaveDeckRequest struct {
	DeckID string `json:"deckId,omitempty"`
	Title  string `json:"title"`
}

// SaveDeck persists the session's current deck
// POST /api/sessions/{id}/save
func (h *Handlers) SaveDeck(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req SaveDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.app.SaveDeck(id, req.DeckID, r.Header.Get("X-User-ID"), req.Title); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// LoadDeck loads a saved deck into the session
// POST /api/sessions/{id}/load/{deckId}
func (h *Handlers) LoadDeck(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	deck, err := h.app.LoadDeck(vars["id"], vars["deckId"])
	if err != nil {
		writeError(w, err)
		return
	}
	h.deckResponse(w, vars["id"], deck)
}

// ListDecks lists the caller's saved decks
// GET /api/decks
func (h *Handlers) ListDecks(w http.ResponseWriter, r *http.Request) {
	recs, err := h.app.ListDecks(r.Header.Get("X-User-ID"))
	if err != nil {
		writeError(w, err)
		return
	}
	if recs == nil {
		recs = []database.DeckRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

// DeleteDeck removes a saved deck
// DELETE /api/decks/{deckId}
func (h *Handlers) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	if err := h.app.DeleteDeck(mux.Vars(r)["deckId"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SaveCredentials stores the caller's API keys
// POST /api/credentials
func (h *Handlers) SaveCredentials(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		http.Error(w, "X-User-ID header is required", http.StatusBadRequest)
		return
	}
	var creds database.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.app.SaveCredentials(userID, creds); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// CredentialStatusResponse reports stored credentials without the values.
type CredentialStatusResponse struct {
	HasLLMKey     bool `json:"hasLlmKey"`
	HasImageToken bool `json:"hasImageToken"`
}

// GetCredentialStatus reports which credentials are stored
// GET /api/credentials
func (h *Handlers) GetCredentialStatus(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		http.Error(w, "X-User-ID header is required", http.StatusBadRequest)
		return
	}
	hasKey, hasToken, err := h.app.GetCredentialStatus(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CredentialStatusResponse{HasLLMKey: hasKey, HasImageToken: hasToken})
}

// ListThemes returns the theme catalog
// GET /api/catalog/themes
func (h *Handlers) ListThemes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Themes)
}

// ListLayouts returns the layout catalog
// GET /api/catalog/layouts
func (h *Handlers) ListLayouts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Layouts)
}

// WatchSession upgrades to a websocket and streams deck updates
// GET /ws/sessions/{id}
func (h *Handlers) WatchSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := h.app.session(id); err != nil {
		writeError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.app.Log("WebSocket upgrade failed: " + err.Error())
		return
	}

	// Register and send the current snapshot in one locked step so the
	// write cannot interleave with a concurrent broadcast.
	deck, err := h.app.GetDeck(id)
	if err != nil {
		conn.Close()
		return
	}
	if err := h.app.hub.SubscribeAndSend(id, conn, deck); err != nil {
		conn.Close()
		return
	}

	// Reads are discarded; the socket exists to push updates. The loop
	// detects the close.
	go func() {
		defer func() {
			h.app.hub.Unsubscribe(id, conn)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
