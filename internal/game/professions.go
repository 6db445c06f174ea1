package game

import "fmt"

// professionCatalog is the fixed set of starting templates. Amounts are
// monthly except savings and liability principals.
var professionCatalog = []Profession{
	{
		ID:            "engineer",
		Title:         "Software Engineer",
		Description:   "Writes code for money",
		SalaryMicros:  8_000 * MicrosPerBuck,
		SavingsMicros: 2_000 * MicrosPerBuck,
		Expenses: ExpenseSchedule{
			TaxesMicros:       1_800 * MicrosPerBuck,
			MortgageMicros:    1_200 * MicrosPerBuck,
			SchoolLoansMicros: 300 * MicrosPerBuck,
			CarLoansMicros:    200 * MicrosPerBuck,
			CreditCardMicros:  150 * MicrosPerBuck,
			OtherMicros:       1_000 * MicrosPerBuck,
			PerChildMicros:    400 * MicrosPerBuck,
		},
		Liabilities: LiabilitySchedule{
			MortgageMicros:    150_000 * MicrosPerBuck,
			SchoolLoansMicros: 20_000 * MicrosPerBuck,
			CarLoansMicros:    10_000 * MicrosPerBuck,
			CreditCardMicros:  3_000 * MicrosPerBuck,
		},
	},
	{
		ID:            "teacher",
		Title:         "School Teacher",
		Description:   "Shapes young minds on a modest paycheck",
		SalaryMicros:  3_300 * MicrosPerBuck,
		SavingsMicros: 400 * MicrosPerBuck,
		Expenses: ExpenseSchedule{
			TaxesMicros:       630 * MicrosPerBuck,
			MortgageMicros:    500 * MicrosPerBuck,
			SchoolLoansMicros: 60 * MicrosPerBuck,
			CarLoansMicros:    100 * MicrosPerBuck,
			CreditCardMicros:  90 * MicrosPerBuck,
			OtherMicros:       760 * MicrosPerBuck,
			PerChildMicros:    180 * MicrosPerBuck,
		},
		Liabilities: LiabilitySchedule{
			MortgageMicros:    50_000 * MicrosPerBuck,
			SchoolLoansMicros: 12_000 * MicrosPerBuck,
			CarLoansMicros:    5_000 * MicrosPerBuck,
			CreditCardMicros:  2_000 * MicrosPerBuck,
		},
	},
	{
		ID:            "doctor",
		Title:         "Doctor",
		Description:   "High income, higher school debt",
		SalaryMicros:  13_200 * MicrosPerBuck,
		SavingsMicros: 3_500 * MicrosPerBuck,
		Expenses: ExpenseSchedule{
			TaxesMicros:       3_420 * MicrosPerBuck,
			MortgageMicros:    1_900 * MicrosPerBuck,
			SchoolLoansMicros: 750 * MicrosPerBuck,
			CarLoansMicros:    380 * MicrosPerBuck,
			CreditCardMicros:  270 * MicrosPerBuck,
			OtherMicros:       2_880 * MicrosPerBuck,
			PerChildMicros:    640 * MicrosPerBuck,
		},
		Liabilities: LiabilitySchedule{
			MortgageMicros:    202_000 * MicrosPerBuck,
			SchoolLoansMicros: 150_000 * MicrosPerBuck,
			CarLoansMicros:    19_000 * MicrosPerBuck,
			CreditCardMicros:  10_000 * MicrosPerBuck,
		},
	},
	{
		ID:            "truck-driver",
		Title:         "Truck Driver",
		Description:   "Long hauls, low overhead",
		SalaryMicros:  2_500 * MicrosPerBuck,
		SavingsMicros: 750 * MicrosPerBuck,
		Expenses: ExpenseSchedule{
			TaxesMicros:       460 * MicrosPerBuck,
			MortgageMicros:    400 * MicrosPerBuck,
			SchoolLoansMicros: 0,
			CarLoansMicros:    80 * MicrosPerBuck,
			CreditCardMicros:  60 * MicrosPerBuck,
			OtherMicros:       570 * MicrosPerBuck,
			PerChildMicros:    140 * MicrosPerBuck,
		},
		Liabilities: LiabilitySchedule{
			MortgageMicros:    38_000 * MicrosPerBuck,
			SchoolLoansMicros: 0,
			CarLoansMicros:    4_000 * MicrosPerBuck,
			CreditCardMicros:  1_000 * MicrosPerBuck,
		},
	},
	{
		ID:            "lawyer",
		Title:         "Lawyer",
		Description:   "Bills by the hour, pays by the month",
		SalaryMicros:  7_500 * MicrosPerBuck,
		SavingsMicros: 2_000 * MicrosPerBuck,
		Expenses: ExpenseSchedule{
			TaxesMicros:       1_830 * MicrosPerBuck,
			MortgageMicros:    1_100 * MicrosPerBuck,
			SchoolLoansMicros: 390 * MicrosPerBuck,
			CarLoansMicros:    220 * MicrosPerBuck,
			CreditCardMicros:  180 * MicrosPerBuck,
			OtherMicros:       1_650 * MicrosPerBuck,
			PerChildMicros:    380 * MicrosPerBuck,
		},
		Liabilities: LiabilitySchedule{
			MortgageMicros:    115_000 * MicrosPerBuck,
			SchoolLoansMicros: 78_000 * MicrosPerBuck,
			CarLoansMicros:    11_000 * MicrosPerBuck,
			CreditCardMicros:  7_000 * MicrosPerBuck,
		},
	},
}

// Professions returns the profession catalog. The slice is a copy; templates
// themselves are immutable by convention.
func Professions() []Profession {
	return append([]Profession(nil), professionCatalog...)
}

func ProfessionByID(id string) (Profession, error) {
	for _, p := range professionCatalog {
		if p.ID == id {
			return p, nil
		}
	}
	return Profession{}, fmt.Errorf("profession %s: %w", id, ErrNotFound)
}
