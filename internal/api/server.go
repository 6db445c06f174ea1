package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"ratrace/internal/config"
	"ratrace/internal/events"
	"ratrace/internal/game"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	cfg     config.APIConfig
	log     *slog.Logger
	session *game.Session
	events  *events.Generator
	mux     *chi.Mux
}

func New(cfg config.APIConfig, logger *slog.Logger, session *game.Session, gen *events.Generator) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:     cfg,
		log:     logger,
		session: session,
		events:  gen,
		mux:     chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/professions", s.handleProfessions)
		r.Post("/session", s.handleInitSession)
		r.Get("/session", s.handleSessionState)
		r.Get("/player", s.handlePlayer)
		r.Post("/rounds/advance", s.handleAdvanceRound)

		r.Post("/player/assets/buy", s.handleBuyAsset)
		r.Post("/player/assets/{id}/sell", s.handleSellAsset)
		r.Post("/player/loans", s.handleTakeLoan)
		r.Post("/player/liabilities/{id}/repay", s.handleRepayLiability)
		r.Post("/player/children", s.handleAddChild)

		r.Post("/events/next", s.handleNextEvent)
		r.Post("/events/{id}/choose", s.handleChooseEvent)
	})
}

func (s *Server) handleProfessions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"professions": game.Professions()})
}

func (s *Server) handleInitSession(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ProfessionID string `json:"profession_id"`
		Name         string `json:"name"`
		Age          int    `json:"age"`
		MaxRounds    int    `json:"max_rounds"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	prof, err := game.ProfessionByID(strings.TrimSpace(in.ProfessionID))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = "Player 1"
	}
	age := in.Age
	if age <= 0 {
		age = 25
	}
	maxRounds := in.MaxRounds
	if maxRounds <= 0 {
		maxRounds = s.cfg.MaxRounds
	}

	player := game.NewPlayer(prof, name, age)
	state := s.session.Init(player, maxRounds)
	writeJSON(w, http.StatusCreated, state)
}

func (s *Server) handleSessionState(w http.ResponseWriter, _ *http.Request) {
	state, ok := s.session.State()
	if !ok {
		writeError(w, http.StatusNotFound, game.ErrNoSession.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"state":           state,
		"transient_error": s.session.TransientError(),
	})
}

func (s *Server) handlePlayer(w http.ResponseWriter, _ *http.Request) {
	player, ok := s.session.CurrentPlayer()
	if !ok {
		writeError(w, http.StatusNotFound, game.ErrNoSession.Error())
		return
	}
	writeJSON(w, http.StatusOK, player)
}

func (s *Server) handleAdvanceRound(w http.ResponseWriter, _ *http.Request) {
	if err := s.session.AdvanceRound(); err != nil {
		writeDomainError(w, err)
		return
	}
	state, _ := s.session.State()
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleBuyAsset(w http.ResponseWriter, r *http.Request) {
	var in game.Asset
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(in.ID) == "" {
		writeError(w, http.StatusBadRequest, "asset id is required")
		return
	}
	if state, ok := s.session.State(); ok && in.PurchaseRound == 0 {
		in.PurchaseRound = state.CurrentRound
	}
	if err := s.session.BuyAsset(in); err != nil {
		writeDomainError(w, err)
		return
	}
	s.writePlayer(w)
}

func (s *Server) handleSellAsset(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Multiplier float64 `json:"multiplier"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.session.SellAsset(chi.URLParam(r, "id"), in.Multiplier); err != nil {
		writeDomainError(w, err)
		return
	}
	s.writePlayer(w)
}

func (s *Server) handleTakeLoan(w http.ResponseWriter, r *http.Request) {
	var in struct {
		AmountMicros int64   `json:"amount_micros"`
		InterestRate float64 `json:"interest_rate"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.session.TakeLoan(in.AmountMicros, in.InterestRate); err != nil {
		writeDomainError(w, err)
		return
	}
	s.writePlayer(w)
}

func (s *Server) handleRepayLiability(w http.ResponseWriter, r *http.Request) {
	if err := s.session.RepayLiability(chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	s.writePlayer(w)
}

func (s *Server) handleAddChild(w http.ResponseWriter, _ *http.Request) {
	if err := s.session.AddChild(); err != nil {
		writeDomainError(w, err)
		return
	}
	s.writePlayer(w)
}

func (s *Server) handleNextEvent(w http.ResponseWriter, r *http.Request) {
	player, ok := s.session.CurrentPlayer()
	if !ok {
		writeError(w, http.StatusConflict, game.ErrNoSession.Error())
		return
	}
	state, _ := s.session.State()

	ev := s.events.GenerateLifeEvent(r.Context(), player, state)
	if err := s.session.PushEvent(ev); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (s *Server) handleChooseEvent(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ChoiceID string `json:"choice_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.session.ResolveEvent(chi.URLParam(r, "id"), in.ChoiceID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) writePlayer(w http.ResponseWriter) {
	player, ok := s.session.CurrentPlayer()
	if !ok {
		writeError(w, http.StatusConflict, game.ErrNoSession.Error())
		return
	}
	writeJSON(w, http.StatusOK, player)
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrInsufficientFunds):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, game.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrNoSession):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}
