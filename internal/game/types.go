package game

import "time"

type AssetType string

const (
	AssetStock      AssetType = "stock"
	AssetRealEstate AssetType = "realEstate"
	AssetBusiness   AssetType = "business"
	AssetCrypto     AssetType = "crypto"
	AssetBonds      AssetType = "bonds"
	AssetGold       AssetType = "gold"
)

type RiskLevel string

const (
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
	RiskExtreme RiskLevel = "extreme"
)

// ExpenseSchedule is the fixed recurring-expense template of a profession.
type ExpenseSchedule struct {
	TaxesMicros       int64 `json:"taxes_micros"`
	MortgageMicros    int64 `json:"mortgage_micros"`
	SchoolLoansMicros int64 `json:"school_loans_micros"`
	CarLoansMicros    int64 `json:"car_loans_micros"`
	CreditCardMicros  int64 `json:"credit_card_micros"`
	OtherMicros       int64 `json:"other_micros"`
	PerChildMicros    int64 `json:"per_child_micros"`
}

// LiabilitySchedule is the starting principal template of a profession.
type LiabilitySchedule struct {
	MortgageMicros    int64 `json:"mortgage_micros"`
	SchoolLoansMicros int64 `json:"school_loans_micros"`
	CarLoansMicros    int64 `json:"car_loans_micros"`
	CreditCardMicros  int64 `json:"credit_card_micros"`
}

// Profession is an immutable template created once at game setup.
type Profession struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	SalaryMicros  int64             `json:"salary_micros"`
	SavingsMicros int64             `json:"savings_micros"`
	Expenses      ExpenseSchedule   `json:"expenses"`
	Liabilities   LiabilitySchedule `json:"liabilities"`
}

type Asset struct {
	ID                  string    `json:"id"`
	Type                AssetType `json:"type"`
	Name                string    `json:"name"`
	PurchasePriceMicros int64     `json:"purchase_price_micros"`
	CurrentValueMicros  int64     `json:"current_value_micros"`
	MonthlyIncomeMicros int64     `json:"monthly_income_micros"`
	Risk                RiskLevel `json:"risk"`
	LiquidityDays       int       `json:"liquidity_days"`
	PurchaseRound       int       `json:"purchase_round"`
	Quantity            float64   `json:"quantity,omitempty"`
}

type Liability struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	AmountMicros         int64   `json:"amount_micros"`
	MonthlyPaymentMicros int64   `json:"monthly_payment_micros"`
	InterestRate         float64 `json:"interest_rate,omitempty"`
}

// PlayerFinances is derived from scratch on every recompute. CashOnHandMicros
// is the one accumulator carried forward across rounds and transactions.
type PlayerFinances struct {
	CashOnHandMicros      int64 `json:"cash_on_hand_micros"`
	MonthlyIncomeMicros   int64 `json:"monthly_income_micros"`
	MonthlyExpensesMicros int64 `json:"monthly_expenses_micros"`
	PassiveIncomeMicros   int64 `json:"passive_income_micros"`
	TotalIncomeMicros     int64 `json:"total_income_micros"`
	NetWorthMicros        int64 `json:"net_worth_micros"`
}

type Decision struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	ChoiceID  string    `json:"choice_id"`
	Round     int       `json:"round"`
	Timestamp time.Time `json:"timestamp"`
}

type Player struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Age             int            `json:"age"`
	Profession      Profession     `json:"profession"`
	Finances        PlayerFinances `json:"finances"`
	Assets          []Asset        `json:"assets"`
	Liabilities     []Liability    `json:"liabilities"`
	ChildrenCount   int            `json:"children_count"`
	IsRetired       bool           `json:"is_retired"`
	IsFinancialFree bool           `json:"is_financial_free"`
	Decisions       []Decision     `json:"decisions"`
}

type EventType string

const (
	EventMarket      EventType = "market"
	EventPersonal    EventType = "personal"
	EventOpportunity EventType = "opportunity"
	EventCrisis      EventType = "crisis"
)

// ChoiceConsequence describes the cash/asset/liability deltas a choice
// would carry. Decisions are recorded for history only; nothing in the
// session applies these to player finances.
type ChoiceConsequence struct {
	Immediate *ImmediateConsequence `json:"immediate,omitempty"`
	Recurring *RecurringConsequence `json:"recurring,omitempty"`
	Risk      RiskLevel             `json:"risk,omitempty"`
}

type ImmediateConsequence struct {
	CashMicros int64      `json:"cash_micros,omitempty"`
	Asset      *Asset     `json:"asset,omitempty"`
	Liability  *Liability `json:"liability,omitempty"`
}

type RecurringConsequence struct {
	PassiveIncomeMicros int64 `json:"passive_income_micros,omitempty"`
	ExpensesMicros      int64 `json:"expenses_micros,omitempty"`
}

type Choice struct {
	ID           string            `json:"id"`
	Label        string            `json:"label"`
	Description  string            `json:"description"`
	Consequences ChoiceConsequence `json:"consequences"`
}

type GameEvent struct {
	ID                 string    `json:"id"`
	Round              int       `json:"round"`
	Type               EventType `json:"type"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Choices            []Choice  `json:"choices"`
	AIGenerated        bool      `json:"ai_generated"`
	EducationalContent string    `json:"educational_content,omitempty"`
}

type MarketTrend string

const (
	TrendBull   MarketTrend = "bull"
	TrendBear   MarketTrend = "bear"
	TrendStable MarketTrend = "stable"
)

type MarketConditions struct {
	Trend            MarketTrend `json:"trend"`
	InflationRate    float64     `json:"inflation_rate"`
	InterestRate     float64     `json:"interest_rate"`
	RealEstateMarket float64     `json:"real_estate_market"`
	StockMarket      float64     `json:"stock_market"`
	CryptoMarket     float64     `json:"crypto_market"`
}

type GamePhase string

const (
	PhaseSetup     GamePhase = "setup"
	PhasePlaying   GamePhase = "playing"
	PhaseCompleted GamePhase = "completed"
)

type GameState struct {
	SessionID        string           `json:"session_id"`
	CurrentRound     int              `json:"current_round"`
	MaxRounds        int              `json:"max_rounds"`
	Players          []Player         `json:"players"`
	MarketConditions MarketConditions `json:"market_conditions"`
	ActiveEvents     []GameEvent      `json:"active_events"`
	Phase            GamePhase        `json:"phase"`
	WinnerID         string           `json:"winner_id,omitempty"`
}
