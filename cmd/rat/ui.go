package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"ratrace/internal/cli"
	"ratrace/internal/game"

	"github.com/fatih/color"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)
)

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func promptRequired(label string) (string, error) {
	for {
		fmt.Printf("%s: ", label)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" {
			return text, nil
		}
		printWarn(label + " is required.")
	}
}

func promptChoice(label string, options []string, defaultValue string) (string, error) {
	normalized := make(map[string]struct{}, len(options))
	for _, opt := range options {
		normalized[strings.ToLower(strings.TrimSpace(opt))] = struct{}{}
	}
	for {
		fmt.Printf("%s (%s) [%s]: ", label, strings.Join(options, "/"), defaultValue)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.ToLower(strings.TrimSpace(text))
		if text == "" {
			text = strings.ToLower(strings.TrimSpace(defaultValue))
		}
		if _, ok := normalized[text]; ok {
			return text, nil
		}
		printWarn("Invalid option. Please pick one of the listed values.")
	}
}

func promptFloat(label string, min float64) (float64, error) {
	for {
		text, err := promptRequired(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			printWarn("Enter a valid number.")
			continue
		}
		if v <= min {
			printWarn(fmt.Sprintf("Value must be > %.4f", min))
			continue
		}
		return v, nil
	}
}

func promptInt(label string, min int) (int, error) {
	for {
		text, err := promptRequired(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(text)
		if err != nil {
			printWarn("Enter a whole number.")
			continue
		}
		if v < min {
			printWarn(fmt.Sprintf("Value must be >= %d", min))
			continue
		}
		return v, nil
	}
}

// currentPlayer pulls the sole player out of a state snapshot. The roster
// is a slice for wire-format reasons; this game always has exactly one.
func currentPlayer(state game.GameState) game.Player {
	if len(state.Players) == 0 {
		return game.Player{}
	}
	return state.Players[0]
}

func renderProfessions(professions []game.Profession) {
	accent.Println("\n== PROFESSIONS ==")
	fmt.Printf("%-14s %-18s %12s %12s %12s\n", "ID", "TITLE", "SALARY", "SAVINGS", "EXPENSES")
	for _, p := range professions {
		fmt.Printf("%-14s %-18s %12s %12s %12s\n",
			p.ID,
			truncate(p.Title, 18),
			formatMicros(p.SalaryMicros),
			formatMicros(p.SavingsMicros),
			formatMicros(professionExpenses(p)),
		)
	}
	fmt.Println()
}

func professionExpenses(p game.Profession) int64 {
	e := p.Expenses
	return e.TaxesMicros + e.MortgageMicros + e.SchoolLoansMicros +
		e.CarLoansMicros + e.CreditCardMicros + e.OtherMicros
}

func renderStatus(view cli.SessionView) {
	state := view.State
	p := currentPlayer(state)
	fin := p.Finances

	accent.Printf("\n== %s (%s, age %d) ==\n", p.Name, p.Profession.Title, p.Age)
	fmt.Printf("Round:           %d / %d\n", state.CurrentRound, state.MaxRounds)
	fmt.Printf("Phase:           %s\n", state.Phase)
	fmt.Printf("Market:          %s (inflation %.1f%%)\n", state.MarketConditions.Trend, state.MarketConditions.InflationRate*100)

	fmt.Println()
	fmt.Printf("Cash:            %s bucks\n", colorizeMicros(fin.CashOnHandMicros))
	fmt.Printf("Salary:          %s bucks/mo\n", formatMicros(fin.MonthlyIncomeMicros))
	fmt.Printf("Passive income:  %s bucks/mo\n", formatMicros(fin.PassiveIncomeMicros))
	fmt.Printf("Expenses:        %s bucks/mo\n", formatMicros(fin.MonthlyExpensesMicros))
	fmt.Printf("Cash flow:       %s bucks/mo\n", colorizeMicros(fin.TotalIncomeMicros-fin.MonthlyExpensesMicros))
	fmt.Printf("Net worth:       %s bucks\n", colorizeMicros(fin.NetWorthMicros))
	fmt.Printf("Children:        %d\n", p.ChildrenCount)

	if p.IsFinancialFree {
		printSuccess("Passive income covers expenses. You are out of the rat race.")
	} else {
		gap := fin.MonthlyExpensesMicros - fin.PassiveIncomeMicros
		fmt.Printf("To freedom:      %s bucks/mo more passive income\n", formatMicros(gap))
	}

	fmt.Println()
	accent.Println("Assets")
	if len(p.Assets) == 0 {
		printInfo("No assets yet.")
	} else {
		fmt.Printf("%-28s %-12s %12s %12s %10s\n", "NAME", "TYPE", "VALUE", "INCOME/MO", "RISK")
		for _, a := range p.Assets {
			fmt.Printf("%-28s %-12s %12s %12s %10s\n",
				truncate(a.Name, 28),
				a.Type,
				formatMicros(a.CurrentValueMicros),
				formatMicros(a.MonthlyIncomeMicros),
				a.Risk,
			)
		}
	}

	fmt.Println()
	accent.Println("Liabilities")
	if len(p.Liabilities) == 0 {
		printInfo("Debt free.")
	} else {
		fmt.Printf("%-28s %14s %12s %8s\n", "NAME", "OUTSTANDING", "PAYMENT/MO", "RATE")
		for _, l := range p.Liabilities {
			fmt.Printf("%-28s %14s %12s %7.1f%%\n",
				truncate(l.Name, 28),
				formatMicros(l.AmountMicros),
				formatMicros(l.MonthlyPaymentMicros),
				l.InterestRate*100,
			)
		}
	}

	if len(state.ActiveEvents) > 0 {
		fmt.Println()
		warn.Printf("%d event(s) waiting. Run `rat event` to see them.\n", len(state.ActiveEvents))
	}
	if strings.TrimSpace(view.TransientError) != "" {
		fmt.Println()
		danger.Println("Last rejected action: " + view.TransientError)
	}
	fmt.Println()
}

func renderEvent(ev game.GameEvent) {
	accent.Printf("\n== EVENT: %s ==\n", ev.Title)
	fmt.Printf("Type: %s\n", ev.Type)
	fmt.Println(ev.Description)
	fmt.Println()
	for i, c := range ev.Choices {
		fmt.Printf("%d) %s\n", i+1, c.Label)
		if c.Description != "" {
			fmt.Printf("   %s\n", c.Description)
		}
		renderConsequences(c.Consequences)
	}
	if ev.EducationalContent != "" {
		fmt.Println()
		printInfo(ev.EducationalContent)
	}
	fmt.Println()
	printInfo("Resolve with `rat choose " + ev.ID + " <choice_id>` or just `rat choose`.")
	fmt.Println()
}

func renderConsequences(c game.ChoiceConsequence) {
	if c.Immediate != nil && c.Immediate.CashMicros != 0 {
		fmt.Printf("   now: %s bucks\n", colorizeMicros(c.Immediate.CashMicros))
	}
	if c.Recurring != nil {
		if c.Recurring.PassiveIncomeMicros != 0 {
			fmt.Printf("   monthly income: %s bucks\n", colorizeMicros(c.Recurring.PassiveIncomeMicros))
		}
		if c.Recurring.ExpensesMicros != 0 {
			fmt.Printf("   monthly expenses: %s bucks\n", colorizeMicros(-c.Recurring.ExpensesMicros))
		}
	}
}

func renderOutcome(state game.GameState) {
	switch {
	case state.Phase != game.PhaseCompleted:
		return
	case state.WinnerID != "":
		printSuccess(fmt.Sprintf("Round %d: passive income beat expenses. Out of the rat race!", state.CurrentRound))
	default:
		printWarn(fmt.Sprintf("Game over after %d rounds. The rat race won this time.", state.MaxRounds))
	}
}

func colorizeMicros(v int64) string {
	text := signedMicros(v)
	switch {
	case v > 0:
		return success.Sprint(text)
	case v < 0:
		return danger.Sprint(text)
	default:
		return neutral.Sprint(text)
	}
}

func formatMicros(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole := v / game.MicrosPerBuck
	frac := (v % game.MicrosPerBuck) / 10_000
	return fmt.Sprintf("%s%s.%02d", sign, comma(whole), frac)
}

func signedMicros(v int64) string {
	if v > 0 {
		return "+" + formatMicros(v)
	}
	return formatMicros(v)
}

func comma(v int64) string {
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
		if len(s) > pre {
			b.WriteByte(',')
		}
	}
	for i := pre; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte(',')
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
