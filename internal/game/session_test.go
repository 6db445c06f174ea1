package game

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"
)

func newTestSession(t *testing.T, errTTL time.Duration) *Session {
	t.Helper()
	s := NewSession(nil, errTTL)
	s.rand = rand.New(rand.NewSource(42))
	return s
}

func TestAdvanceRoundNoSession(t *testing.T) {
	s := newTestSession(t, 0)
	if err := s.AdvanceRound(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if err := s.BuyAsset(testAsset("a", 1, 1, 1)); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestInitReplacesPriorSession(t *testing.T) {
	s := newTestSession(t, 0)
	first := s.Init(engineerPlayer(t), 10)
	second := s.Init(engineerPlayer(t), 20)
	if first.SessionID == second.SessionID {
		t.Fatalf("expected a fresh session id")
	}
	state, ok := s.State()
	if !ok {
		t.Fatalf("no state after init")
	}
	if state.MaxRounds != 20 || state.CurrentRound != 1 || state.Phase != PhasePlaying {
		t.Fatalf("unexpected state: %+v", state)
	}
	mc := state.MarketConditions
	if mc.Trend != TrendStable || mc.InflationRate != 0.03 || mc.InterestRate != 0.05 ||
		mc.RealEstateMarket != 1.0 || mc.StockMarket != 1.0 || mc.CryptoMarket != 1.0 {
		t.Fatalf("unexpected initial market: %+v", mc)
	}
}

func TestInitDefaultMaxRounds(t *testing.T) {
	s := newTestSession(t, 0)
	state := s.Init(engineerPlayer(t), 0)
	if state.MaxRounds != DefaultMaxRounds {
		t.Fatalf("max rounds got %d want %d", state.MaxRounds, DefaultMaxRounds)
	}
}

func TestAdvanceRoundPayday(t *testing.T) {
	s := newTestSession(t, 0)
	s.Init(engineerPlayer(t), 10)

	if err := s.AdvanceRound(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	p, ok := s.CurrentPlayer()
	if !ok {
		t.Fatalf("no current player")
	}
	// Engineer cash flow is 8000 - 6500 = 1500 on top of 2000 savings.
	if p.Finances.CashOnHandMicros != 3_500*MicrosPerBuck {
		t.Fatalf("cash got %d", p.Finances.CashOnHandMicros)
	}
	state, _ := s.State()
	if state.CurrentRound != 2 || state.Phase != PhasePlaying {
		t.Fatalf("state got round=%d phase=%s", state.CurrentRound, state.Phase)
	}
}

func TestRoundLimitTermination(t *testing.T) {
	s := newTestSession(t, 0)
	s.Init(engineerPlayer(t), 2)

	for i := 0; i < 2; i++ {
		if err := s.AdvanceRound(); err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
	}
	state, _ := s.State()
	if state.CurrentRound != 3 {
		t.Fatalf("round got %d want 3", state.CurrentRound)
	}
	if state.Phase != PhaseCompleted {
		t.Fatalf("phase got %s", state.Phase)
	}
	if state.WinnerID != "" {
		t.Fatalf("winner should be unset, got %s", state.WinnerID)
	}

	// Completed sessions stay completed; further advances change nothing.
	if err := s.AdvanceRound(); err != nil {
		t.Fatalf("post-completion advance: %v", err)
	}
	after, _ := s.State()
	if after.CurrentRound != 3 || after.Phase != PhaseCompleted {
		t.Fatalf("state moved after completion: %+v", after)
	}
}

func TestVictoryCompletesSession(t *testing.T) {
	s := newTestSession(t, 0)

	// Fourteen deals at 500/month clear the engineer's 6600 bar (6500 in
	// expenses plus the 100 loan payment).
	free := TakeLoan(engineerPlayer(t), 10_000*MicrosPerBuck, DefaultLoanRate)
	for i := 0; i < 14; i++ {
		var err error
		free, err = BuyAsset(free, testAsset(fmt.Sprintf("deal-%d", i), 500, 500, 500))
		if err != nil {
			t.Fatalf("buy %d: %v", i, err)
		}
	}
	s.Init(free, 55)

	if err := s.AdvanceRound(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	state, _ := s.State()
	if state.Phase != PhaseCompleted {
		t.Fatalf("phase got %s", state.Phase)
	}
	if state.WinnerID != free.ID {
		t.Fatalf("winner got %q want %q", state.WinnerID, free.ID)
	}
}

func TestBuyThroughSession(t *testing.T) {
	s := newTestSession(t, 0)
	s.Init(engineerPlayer(t), 10)

	if err := s.BuyAsset(testAsset("a1", 1_000, 1_000, 25)); err != nil {
		t.Fatalf("buy: %v", err)
	}
	p, _ := s.CurrentPlayer()
	if len(p.Assets) != 1 || p.Finances.CashOnHandMicros != 1_000*MicrosPerBuck {
		t.Fatalf("unexpected player after buy: cash=%d assets=%d",
			p.Finances.CashOnHandMicros, len(p.Assets))
	}
	if got := s.TransientError(); got != "" {
		t.Fatalf("unexpected transient error %q", got)
	}
}

func TestRejectedBuySetsTransientError(t *testing.T) {
	s := newTestSession(t, 50*time.Millisecond)
	s.Init(engineerPlayer(t), 10)

	err := s.BuyAsset(testAsset("big", 1_000_000, 1_000_000, 0))
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if s.TransientError() == "" {
		t.Fatalf("transient error not set")
	}
	p, _ := s.CurrentPlayer()
	if len(p.Assets) != 0 {
		t.Fatalf("player changed after rejected buy")
	}

	deadline := time.Now().Add(2 * time.Second)
	for s.TransientError() != "" {
		if time.Now().After(deadline) {
			t.Fatalf("transient error never cleared")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNewerTransientErrorSurvivesOlderTimer(t *testing.T) {
	s := newTestSession(t, 60*time.Millisecond)
	s.Init(engineerPlayer(t), 10)

	_ = s.SellAsset("first-ghost", 1.0)
	time.Sleep(40 * time.Millisecond)
	_ = s.SellAsset("second-ghost", 1.0)

	// The first timer fires inside this window; the second error must
	// survive it.
	time.Sleep(40 * time.Millisecond)
	if got := s.TransientError(); got == "" {
		t.Fatalf("newer error cleared by older timer")
	}
	time.Sleep(60 * time.Millisecond)
	if got := s.TransientError(); got != "" {
		t.Fatalf("error %q should have expired", got)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	s := newTestSession(t, 0)
	s.Init(engineerPlayer(t), 10)

	p, _ := s.CurrentPlayer()
	p.Finances.CashOnHandMicros = 0
	p.Liabilities[0].AmountMicros = 0

	fresh, _ := s.CurrentPlayer()
	if fresh.Finances.CashOnHandMicros != 2_000*MicrosPerBuck {
		t.Fatalf("session state mutated through snapshot")
	}
	if fresh.Liabilities[0].AmountMicros == 0 {
		t.Fatalf("liability slice shared with snapshot")
	}

	state, _ := s.State()
	state.Players[0].ChildrenCount = 9
	again, _ := s.CurrentPlayer()
	if again.ChildrenCount != 0 {
		t.Fatalf("roster shared with state snapshot")
	}
}

func TestRecordDecision(t *testing.T) {
	s := newTestSession(t, 0)
	s.Init(engineerPlayer(t), 10)

	if err := s.RecordDecision(Decision{EventID: "ev1", ChoiceID: "c2"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	p, _ := s.CurrentPlayer()
	if len(p.Decisions) != 1 {
		t.Fatalf("decision not recorded")
	}
	d := p.Decisions[0]
	if d.ID == "" || d.Round != 1 || d.Timestamp.IsZero() {
		t.Fatalf("decision not filled in: %+v", d)
	}
	// Decisions never touch finances.
	if p.Finances.CashOnHandMicros != 2_000*MicrosPerBuck {
		t.Fatalf("decision changed cash")
	}
}

func TestResolveEvent(t *testing.T) {
	s := newTestSession(t, 0)
	s.Init(engineerPlayer(t), 10)

	ev := GameEvent{
		ID:    "ev1",
		Type:  EventOpportunity,
		Title: "Side gig",
		Choices: []Choice{
			{ID: "c1", Label: "Take it"},
			{ID: "c2", Label: "Pass"},
		},
	}
	if err := s.PushEvent(ev); err != nil {
		t.Fatalf("push: %v", err)
	}
	if err := s.ResolveEvent("ev1", "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown choice, got %v", err)
	}
	if err := s.ResolveEvent("ev1", "c1"); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	state, _ := s.State()
	if len(state.ActiveEvents) != 0 {
		t.Fatalf("event still active")
	}
	p, _ := s.CurrentPlayer()
	if len(p.Decisions) != 1 || p.Decisions[0].ChoiceID != "c1" {
		t.Fatalf("decision not recorded: %+v", p.Decisions)
	}
	if err := s.ResolveEvent("ev1", "c1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for resolved event, got %v", err)
	}
}

func TestMarketDriftStaysBounded(t *testing.T) {
	s := newTestSession(t, 0)
	s.Init(engineerPlayer(t), 500)

	for i := 0; i < 400; i++ {
		if err := s.AdvanceRound(); err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
	}
	state, _ := s.State()
	mc := state.MarketConditions
	if mc.RealEstateMarket < 0.8 || mc.RealEstateMarket > 1.2 {
		t.Fatalf("real estate multiplier out of range: %f", mc.RealEstateMarket)
	}
	if mc.StockMarket < 0.7 || mc.StockMarket > 1.3 {
		t.Fatalf("stock multiplier out of range: %f", mc.StockMarket)
	}
	if mc.CryptoMarket < 0.5 || mc.CryptoMarket > 2.0 {
		t.Fatalf("crypto multiplier out of range: %f", mc.CryptoMarket)
	}
	switch mc.Trend {
	case TrendBull, TrendBear, TrendStable:
	default:
		t.Fatalf("unknown trend %q", mc.Trend)
	}
}
