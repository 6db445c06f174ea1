package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultErrorTTL is how long a failed transaction stays visible in the
// session's transient error slot.
const DefaultErrorTTL = 3 * time.Second

var ErrNoSession = errors.New("no active session")

// Session owns the single mutable GameState and the current-player pointer.
// All financial arithmetic is delegated to the engine; the session merges
// the returned snapshots back into the roster. There is exactly one logical
// writer, but the mutex keeps snapshot readers safe from HTTP handlers.
type Session struct {
	mu     sync.Mutex
	log    *slog.Logger
	rand   *rand.Rand
	errTTL time.Duration

	state     *GameState
	currentID string

	lastErr string
	errSeq  uint64
}

func NewSession(logger *slog.Logger, errTTL time.Duration) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if errTTL <= 0 {
		errTTL = DefaultErrorTTL
	}
	return &Session{
		log:    logger,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
		errTTL: errTTL,
	}
}

// Init replaces any prior session wholesale and enters the playing phase.
func (s *Session) Init(player Player, maxRounds int) GameState {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = &GameState{
		SessionID:        uuid.NewString(),
		CurrentRound:     1,
		MaxRounds:        maxRounds,
		Players:          []Player{clonePlayer(player)},
		MarketConditions: NewMarketConditions(),
		ActiveEvents:     []GameEvent{},
		Phase:            PhasePlaying,
	}
	s.currentID = player.ID
	s.lastErr = ""
	s.errSeq++
	s.log.Info("session started",
		"session_id", s.state.SessionID,
		"player_id", player.ID,
		"profession", player.Profession.ID,
		"max_rounds", maxRounds)
	return cloneState(*s.state)
}

// State returns a deep copy of the session state.
func (s *Session) State() (GameState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return GameState{}, false
	}
	return cloneState(*s.state), true
}

// CurrentPlayer returns a deep copy of the current player snapshot.
func (s *Session) CurrentPlayer() (Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.currentLocked()
	if !ok {
		return Player{}, false
	}
	return clonePlayer(*p), true
}

// TransientError reports the most recent failed transaction, or "" once it
// has expired.
func (s *Session) TransientError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// AdvanceRound settles one month for the current player: payday, victory
// check, round increment, roster merge, market drift, phase transition.
// Once the session is completed further calls are no-ops; the phase never
// re-enters playing.
func (s *Session) AdvanceRound() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.currentLocked()
	if !ok {
		return ErrNoSession
	}
	if s.state.Phase == PhaseCompleted {
		return nil
	}

	updated := ProcessPayday(*cur)
	won := CheckVictory(updated)

	s.state.CurrentRound++
	s.replaceLocked(updated)
	s.state.MarketConditions = driftMarket(s.state.MarketConditions, s.rand.Float64)

	switch {
	case won:
		s.state.Phase = PhaseCompleted
		s.state.WinnerID = updated.ID
		s.log.Info("financial freedom reached",
			"session_id", s.state.SessionID,
			"round", s.state.CurrentRound,
			"passive_income_micros", updated.Finances.PassiveIncomeMicros,
			"expenses_micros", updated.Finances.MonthlyExpensesMicros)
	case s.state.CurrentRound > s.state.MaxRounds:
		s.state.Phase = PhaseCompleted
		s.log.Info("session ended at round limit",
			"session_id", s.state.SessionID,
			"round", s.state.CurrentRound)
	}
	return nil
}

// RecordDecision appends to the current player's decision log. Decisions
// are audit history only; they carry no financial effect.
func (s *Session) RecordDecision(d Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.currentLocked()
	if !ok {
		return ErrNoSession
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Round == 0 {
		d.Round = s.state.CurrentRound
	}
	if d.Timestamp.IsZero() {
		d.Timestamp = time.Now()
	}
	cur.Decisions = append(cur.Decisions, d)
	return nil
}

// PushEvent adds an unresolved event to the session.
func (s *Session) PushEvent(ev GameEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return ErrNoSession
	}
	s.state.ActiveEvents = append(s.state.ActiveEvents, ev)
	return nil
}

// ResolveEvent records the chosen option as a decision and retires the
// event from the active list.
func (s *Session) ResolveEvent(eventID, choiceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.currentLocked()
	if !ok {
		return ErrNoSession
	}
	idx := -1
	for i, ev := range s.state.ActiveEvents {
		if ev.ID == eventID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}
	found := false
	for _, c := range s.state.ActiveEvents[idx].Choices {
		if c.ID == choiceID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("choice %s: %w", choiceID, ErrNotFound)
	}

	cur.Decisions = append(cur.Decisions, Decision{
		ID:        uuid.NewString(),
		EventID:   eventID,
		ChoiceID:  choiceID,
		Round:     s.state.CurrentRound,
		Timestamp: time.Now(),
	})
	s.state.ActiveEvents = append(s.state.ActiveEvents[:idx], s.state.ActiveEvents[idx+1:]...)
	return nil
}

// BuyAsset purchases for the current player. Engine failures are returned
// to the caller and mirrored into the transient error slot.
func (s *Session) BuyAsset(asset Asset) error {
	return s.transact("buy asset", func(p Player) (Player, error) {
		return BuyAsset(p, asset)
	})
}

func (s *Session) SellAsset(assetID string, marketMultiplier float64) error {
	if marketMultiplier == 0 {
		marketMultiplier = 1.0
	}
	return s.transact("sell asset", func(p Player) (Player, error) {
		return SellAsset(p, assetID, marketMultiplier)
	})
}

func (s *Session) TakeLoan(amountMicros int64, interestRate float64) error {
	if interestRate == 0 {
		interestRate = DefaultLoanRate
	}
	return s.transact("take loan", func(p Player) (Player, error) {
		return TakeLoan(p, amountMicros, interestRate), nil
	})
}

func (s *Session) RepayLiability(liabilityID string) error {
	return s.transact("repay liability", func(p Player) (Player, error) {
		return RepayLiability(p, liabilityID)
	})
}

func (s *Session) AddChild() error {
	return s.transact("add child", func(p Player) (Player, error) {
		return AddChild(p), nil
	})
}

func (s *Session) transact(op string, fn func(Player) (Player, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.currentLocked()
	if !ok {
		return ErrNoSession
	}
	updated, err := fn(*cur)
	if err != nil {
		s.log.Warn("transaction rejected", "op", op, "err", err)
		s.setErrLocked(err.Error())
		return err
	}
	s.replaceLocked(updated)
	return nil
}

// setErrLocked records a transient error. The clear timer is tied to the
// sequence number it was armed with, so an older timer never wipes a newer
// error set inside the TTL window.
func (s *Session) setErrLocked(msg string) {
	s.errSeq++
	seq := s.errSeq
	s.lastErr = msg
	time.AfterFunc(s.errTTL, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.errSeq == seq {
			s.lastErr = ""
		}
	})
}

func (s *Session) currentLocked() (*Player, bool) {
	if s.state == nil || s.currentID == "" {
		return nil, false
	}
	for i := range s.state.Players {
		if s.state.Players[i].ID == s.currentID {
			return &s.state.Players[i], true
		}
	}
	return nil, false
}

func (s *Session) replaceLocked(p Player) {
	for i := range s.state.Players {
		if s.state.Players[i].ID == p.ID {
			s.state.Players[i] = p
			return
		}
	}
}
