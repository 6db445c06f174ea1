package game

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// The engine is snapshot-in/snapshot-out: every operation deep-copies the
// incoming player and returns a fresh value, so callers can keep the old
// snapshot around and failed operations leave no observable change.

// RecomputeFinances rebuilds every derived field from current holdings.
// Cash on hand is left untouched; it is the accumulator carried across
// rounds and transactions rather than a derived value.
func RecomputeFinances(p Player) Player {
	out := clonePlayer(p)

	var passive int64
	var assetValue int64
	for _, a := range out.Assets {
		passive += a.MonthlyIncomeMicros
		assetValue += a.CurrentValueMicros
	}

	var liabilityPayments int64
	var liabilityValue int64
	for _, l := range out.Liabilities {
		liabilityPayments += l.MonthlyPaymentMicros
		liabilityValue += l.AmountMicros
	}

	exp := out.Profession.Expenses
	totalExpenses := exp.TaxesMicros +
		exp.MortgageMicros +
		exp.SchoolLoansMicros +
		exp.CarLoansMicros +
		exp.CreditCardMicros +
		exp.OtherMicros +
		liabilityPayments +
		int64(out.ChildrenCount)*exp.PerChildMicros

	out.Finances.MonthlyIncomeMicros = out.Profession.SalaryMicros
	out.Finances.PassiveIncomeMicros = passive
	out.Finances.TotalIncomeMicros = out.Profession.SalaryMicros + passive
	out.Finances.MonthlyExpensesMicros = totalExpenses
	out.Finances.NetWorthMicros = assetValue - liabilityValue + out.Finances.CashOnHandMicros
	out.IsFinancialFree = passive > totalExpenses
	return out
}

// ProcessPayday settles one month: recompute, then realize net cash flow
// into cash on hand. The flow may be negative; no overdraft is modeled.
func ProcessPayday(p Player) Player {
	out := RecomputeFinances(p)
	out.Finances.CashOnHandMicros += out.Finances.TotalIncomeMicros - out.Finances.MonthlyExpensesMicros
	return out
}

// CheckVictory evaluates financial freedom on the player's current finances
// snapshot. Callers are expected to check right after a recompute or payday.
func CheckVictory(p Player) bool {
	return p.Finances.PassiveIncomeMicros > p.Finances.MonthlyExpensesMicros
}

// BuyAsset appends the asset as-is and debits its purchase price. The asset
// record is the caller's responsibility; its fields are not re-validated.
func BuyAsset(p Player, asset Asset) (Player, error) {
	if p.Finances.CashOnHandMicros < asset.PurchasePriceMicros {
		return Player{}, fmt.Errorf("buy %s: %w", asset.Name, ErrInsufficientFunds)
	}
	out := clonePlayer(p)
	out.Assets = append(out.Assets, asset)
	out.Finances.CashOnHandMicros -= asset.PurchasePriceMicros
	return RecomputeFinances(out), nil
}

// SellAsset removes the first asset matching assetID and credits its current
// value scaled by marketMultiplier. Sale is instantaneous; the liquidity
// delay on the asset record is not enforced here.
func SellAsset(p Player, assetID string, marketMultiplier float64) (Player, error) {
	idx := -1
	for i, a := range p.Assets {
		if a.ID == assetID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Player{}, fmt.Errorf("sell asset %s: %w", assetID, ErrNotFound)
	}
	salePrice := int64(math.Round(float64(p.Assets[idx].CurrentValueMicros) * marketMultiplier))

	out := clonePlayer(p)
	out.Assets = append(out.Assets[:idx], out.Assets[idx+1:]...)
	out.Finances.CashOnHandMicros += salePrice
	return RecomputeFinances(out), nil
}

// AddChild increments the dependent count. No cap.
func AddChild(p Player) Player {
	out := clonePlayer(p)
	out.ChildrenCount++
	return RecomputeFinances(out)
}

// TakeLoan credits the amount and appends a bank loan. The monthly payment
// is a flat 1% of principal; interestRate is stored on the liability but
// never used to derive the payment. Amounts are not validated.
func TakeLoan(p Player, amountMicros int64, interestRate float64) Player {
	out := clonePlayer(p)
	out.Liabilities = append(out.Liabilities, Liability{
		ID:                   uuid.NewString(),
		Name:                 "Bank Loan",
		AmountMicros:         amountMicros,
		MonthlyPaymentMicros: int64(math.Round(float64(amountMicros) * LoanPaymentRate)),
		InterestRate:         interestRate,
	})
	out.Finances.CashOnHandMicros += amountMicros
	return RecomputeFinances(out)
}

// RepayLiability removes the matched liability and debits the full
// outstanding principal. Partial amortization is not supported.
func RepayLiability(p Player, liabilityID string) (Player, error) {
	idx := -1
	for i, l := range p.Liabilities {
		if l.ID == liabilityID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Player{}, fmt.Errorf("repay liability %s: %w", liabilityID, ErrNotFound)
	}
	if p.Finances.CashOnHandMicros < p.Liabilities[idx].AmountMicros {
		return Player{}, fmt.Errorf("repay %s: %w", p.Liabilities[idx].Name, ErrInsufficientFunds)
	}

	out := clonePlayer(p)
	amount := out.Liabilities[idx].AmountMicros
	out.Liabilities = append(out.Liabilities[:idx], out.Liabilities[idx+1:]...)
	out.Finances.CashOnHandMicros -= amount
	return RecomputeFinances(out), nil
}
