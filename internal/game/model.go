package game

import (
	"errors"
	"math"

	"github.com/google/uuid"
)

const (
	MicrosPerBuck = int64(1_000_000)

	// DefaultMaxRounds is one round per simulated month across roughly the
	// working-age span of the simulation.
	DefaultMaxRounds = 55

	// DefaultLoanRate is stored on bank loans; the monthly payment is a flat
	// LoanPaymentRate of principal and does not derive from it.
	DefaultLoanRate = 0.10
	LoanPaymentRate = 0.01
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotFound          = errors.New("not found")
)

func BucksToMicros(v float64) int64 {
	return int64(math.Round(v * float64(MicrosPerBuck)))
}

func MicrosToBucks(v int64) float64 {
	return float64(v) / float64(MicrosPerBuck)
}

// NewPlayer builds a setup-phase player from a profession template: starting
// cash equals the profession savings, the liability list is derived from the
// profession's liability schedule, and the finances snapshot is stale until
// the first recompute.
func NewPlayer(profession Profession, name string, age int) Player {
	p := Player{
		ID:         uuid.NewString(),
		Name:       name,
		Age:        age,
		Profession: profession,
		Finances: PlayerFinances{
			CashOnHandMicros:    profession.SavingsMicros,
			MonthlyIncomeMicros: profession.SalaryMicros,
			TotalIncomeMicros:   profession.SalaryMicros,
		},
		Assets:      []Asset{},
		Liabilities: startingLiabilities(profession),
		Decisions:   []Decision{},
	}
	return RecomputeFinances(p)
}

func startingLiabilities(profession Profession) []Liability {
	out := make([]Liability, 0, 4)
	add := func(name string, amount, payment int64) {
		if amount <= 0 {
			return
		}
		out = append(out, Liability{
			ID:                   uuid.NewString(),
			Name:                 name,
			AmountMicros:         amount,
			MonthlyPaymentMicros: payment,
		})
	}
	add("Mortgage", profession.Liabilities.MortgageMicros, profession.Expenses.MortgageMicros)
	add("School Loans", profession.Liabilities.SchoolLoansMicros, profession.Expenses.SchoolLoansMicros)
	add("Car Loans", profession.Liabilities.CarLoansMicros, profession.Expenses.CarLoansMicros)
	add("Credit Card", profession.Liabilities.CreditCardMicros, profession.Expenses.CreditCardMicros)
	return out
}

func clonePlayer(p Player) Player {
	out := p
	out.Assets = append([]Asset(nil), p.Assets...)
	out.Liabilities = append([]Liability(nil), p.Liabilities...)
	out.Decisions = append([]Decision(nil), p.Decisions...)
	return out
}

func cloneState(s GameState) GameState {
	out := s
	out.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		out.Players[i] = clonePlayer(p)
	}
	out.ActiveEvents = append([]GameEvent(nil), s.ActiveEvents...)
	for i, ev := range out.ActiveEvents {
		out.ActiveEvents[i].Choices = append([]Choice(nil), ev.Choices...)
	}
	return out
}
