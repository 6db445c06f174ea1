package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	cl "ratrace/internal/cli"
	"ratrace/internal/config"
	"ratrace/internal/game"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:          "rat",
		Short:        "Rat race simulator client",
		SilenceUsage: true,
	}

	root.AddCommand(
		newProfessionsCmd(&apiBase),
		newNewCmd(&apiBase),
		newStatusCmd(&apiBase),
		newAdvanceCmd(&apiBase),
		newBuyCmd(&apiBase),
		newSellCmd(&apiBase),
		newLoanCmd(&apiBase),
		newRepayCmd(&apiBase),
		newChildCmd(&apiBase),
		newEventCmd(&apiBase),
		newChooseCmd(&apiBase),
		newDashCmd(&apiBase),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 30*time.Second)
}

func newProfessionsCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "professions",
		Short: "List starting professions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			professions, err := newClient(apiBase).Professions(ctx)
			if err != nil {
				return err
			}
			renderProfessions(professions)
			return nil
		},
	}
}

func newNewCmd(apiBase *string) *cobra.Command {
	var maxRounds int
	cmd := &cobra.Command{
		Use:   "new [profession_id]",
		Short: "Start a new game",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			client := newClient(apiBase)

			professionID := ""
			if len(args) > 0 {
				professionID = strings.TrimSpace(args[0])
			} else {
				professions, err := client.Professions(ctx)
				if err != nil {
					return err
				}
				if len(professions) == 0 {
					return fmt.Errorf("server returned no professions")
				}
				renderProfessions(professions)
				ids := make([]string, 0, len(professions))
				for _, p := range professions {
					ids = append(ids, p.ID)
				}
				professionID, err = promptChoice("Profession", ids, ids[0])
				if err != nil {
					return err
				}
			}
			name, err := promptRequired("Player name")
			if err != nil {
				return err
			}
			age, err := promptInt("Starting age", 18)
			if err != nil {
				return err
			}

			_ = cl.ClearState()
			state, err := client.NewSession(ctx, professionID, name, age, maxRounds)
			if err != nil {
				return err
			}
			saveSnapshot(*apiBase, state)
			player := currentPlayer(state)
			printSuccess(fmt.Sprintf("Session %s started: %s the %s, %d rounds to escape.",
				state.SessionID, player.Name, player.Profession.Title, state.MaxRounds))
			return nil
		},
	}
	cmd.Flags().IntVar(&maxRounds, "rounds", 0, "round limit (0 = server default)")
	return cmd
}

func newStatusCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current financial sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			view, err := newClient(apiBase).Session(ctx)
			if err != nil {
				return err
			}
			renderStatus(view)
			printDelta(view.State)
			saveSnapshot(*apiBase, view.State)
			return nil
		},
	}
}

func newAdvanceCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "advance [n]",
		Short: "Advance one or more rounds",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := 1
			if len(args) > 0 {
				v, err := strconv.Atoi(strings.TrimSpace(args[0]))
				if err != nil || v < 1 {
					return fmt.Errorf("invalid round count %q", args[0])
				}
				n = v
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			client := newClient(apiBase)

			var state game.GameState
			for i := 0; i < n; i++ {
				var err error
				state, err = client.AdvanceRound(ctx)
				if err != nil {
					return err
				}
				if state.Phase == game.PhaseCompleted {
					break
				}
			}
			saveSnapshot(*apiBase, state)
			fin := currentPlayer(state).Finances
			fmt.Printf("Round %d/%d  cash %s  passive %s  expenses %s\n",
				state.CurrentRound, state.MaxRounds,
				colorizeMicros(fin.CashOnHandMicros),
				formatMicros(fin.PassiveIncomeMicros),
				formatMicros(fin.MonthlyExpensesMicros))
			renderOutcome(state)
			return nil
		},
	}
}

func newBuyCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "buy",
		Short: "Buy an income-producing asset",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := promptRequired("Asset name")
			if err != nil {
				return err
			}
			assetType, err := promptChoice("Type",
				[]string{"stock", "realestate", "business", "crypto", "bonds", "gold"}, "realestate")
			if err != nil {
				return err
			}
			if assetType == "realestate" {
				assetType = string(game.AssetRealEstate)
			}
			risk, err := promptChoice("Risk", []string{"low", "medium", "high", "extreme"}, "medium")
			if err != nil {
				return err
			}
			cost, err := promptFloat("Cost (bucks)", 0)
			if err != nil {
				return err
			}
			income, err := promptFloat("Monthly income (bucks)", -1)
			if err != nil {
				return err
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()
			costMicros := game.BucksToMicros(cost)
			player, err := newClient(apiBase).BuyAsset(ctx, game.Asset{
				ID:                  uuid.NewString(),
				Name:                name,
				Type:                game.AssetType(assetType),
				PurchasePriceMicros: costMicros,
				CurrentValueMicros:  costMicros,
				MonthlyIncomeMicros: game.BucksToMicros(income),
				Risk:                game.RiskLevel(risk),
			})
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Bought %s for %s bucks. Cash: %s, passive income: %s/mo.",
				name, formatMicros(costMicros),
				formatMicros(player.Finances.CashOnHandMicros),
				formatMicros(player.Finances.PassiveIncomeMicros)))
			return nil
		},
	}
}

func newSellCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sell [asset_id]",
		Short: "Sell an asset at the current market multiplier",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			client := newClient(apiBase)

			assetID := ""
			if len(args) > 0 {
				assetID = strings.TrimSpace(args[0])
			} else {
				view, err := client.Session(ctx)
				if err != nil {
					return err
				}
				assets := currentPlayer(view.State).Assets
				if len(assets) == 0 {
					printInfo("No assets to sell.")
					return nil
				}
				fmt.Printf("%-38s %-28s %12s\n", "ID", "NAME", "VALUE")
				for _, a := range assets {
					fmt.Printf("%-38s %-28s %12s\n", a.ID, truncate(a.Name, 28), formatMicros(a.CurrentValueMicros))
				}
				assetID, err = promptRequired("Asset ID")
				if err != nil {
					return err
				}
			}

			player, err := client.SellAsset(ctx, assetID, 0)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Sold. Cash: %s bucks.", formatMicros(player.Finances.CashOnHandMicros)))
			return nil
		},
	}
}

func newLoanCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "loan",
		Short: "Take a bank loan",
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := promptFloat("Amount (bucks)", 0)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			player, err := newClient(apiBase).TakeLoan(ctx, game.BucksToMicros(amount), 0)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Loan granted. Cash: %s bucks, expenses now %s/mo.",
				formatMicros(player.Finances.CashOnHandMicros),
				formatMicros(player.Finances.MonthlyExpensesMicros)))
			return nil
		},
	}
}

func newRepayCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "repay [liability_id]",
		Short: "Pay off a liability in full",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			client := newClient(apiBase)

			liabilityID := ""
			if len(args) > 0 {
				liabilityID = strings.TrimSpace(args[0])
			} else {
				view, err := client.Session(ctx)
				if err != nil {
					return err
				}
				liabilities := currentPlayer(view.State).Liabilities
				if len(liabilities) == 0 {
					printInfo("Nothing to repay.")
					return nil
				}
				fmt.Printf("%-38s %-28s %14s\n", "ID", "NAME", "OUTSTANDING")
				for _, l := range liabilities {
					fmt.Printf("%-38s %-28s %14s\n", l.ID, truncate(l.Name, 28), formatMicros(l.AmountMicros))
				}
				liabilityID, err = promptRequired("Liability ID")
				if err != nil {
					return err
				}
			}

			player, err := client.RepayLiability(ctx, liabilityID)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Paid off. Cash: %s bucks, expenses now %s/mo.",
				formatMicros(player.Finances.CashOnHandMicros),
				formatMicros(player.Finances.MonthlyExpensesMicros)))
			return nil
		},
	}
}

func newChildCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "child",
		Short: "Add a child to the family",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			player, err := newClient(apiBase).AddChild(ctx)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Congratulations! Children: %d, expenses now %s/mo.",
				player.ChildrenCount, formatMicros(player.Finances.MonthlyExpensesMicros)))
			return nil
		},
	}
}

func newEventCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "event",
		Short: "Draw the next life event",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			ev, err := newClient(apiBase).NextEvent(ctx)
			if err != nil {
				return err
			}
			renderEvent(ev)
			return nil
		},
	}
}

func newChooseCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "choose [event_id] [choice_id]",
		Short: "Resolve a pending life event",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			client := newClient(apiBase)

			var eventID, choiceID string
			if len(args) >= 1 {
				eventID = strings.TrimSpace(args[0])
			}
			if len(args) >= 2 {
				choiceID = strings.TrimSpace(args[1])
			}

			if eventID == "" || choiceID == "" {
				view, err := client.Session(ctx)
				if err != nil {
					return err
				}
				events := view.State.ActiveEvents
				if len(events) == 0 {
					printInfo("No pending events.")
					return nil
				}
				ev := events[0]
				if eventID != "" {
					found := false
					for _, candidate := range events {
						if candidate.ID == eventID {
							ev = candidate
							found = true
							break
						}
					}
					if !found {
						return fmt.Errorf("no pending event %q", eventID)
					}
				}
				eventID = ev.ID
				renderEvent(ev)
				pick, err := promptInt(fmt.Sprintf("Choice (1-%d)", len(ev.Choices)), 1)
				if err != nil {
					return err
				}
				if pick > len(ev.Choices) {
					return fmt.Errorf("choice out of range")
				}
				choiceID = ev.Choices[pick-1].ID
			}

			if err := client.ChooseEvent(ctx, eventID, choiceID); err != nil {
				return err
			}
			printSuccess("Choice recorded.")
			return nil
		},
	}
}

func printDelta(state game.GameState) {
	st, err := cl.LoadState()
	if err != nil || st.SessionID != state.SessionID || st.LastRound == 0 {
		return
	}
	rounds := state.CurrentRound - st.LastRound
	if rounds <= 0 {
		return
	}
	fin := currentPlayer(state).Finances
	fmt.Printf("Since round %d: cash %s, net worth %s\n",
		st.LastRound,
		signedMicros(fin.CashOnHandMicros-st.LastCashMicros),
		signedMicros(fin.NetWorthMicros-st.LastWorthMicros))
	fmt.Println()
}

func saveSnapshot(apiBase string, state game.GameState) {
	if state.SessionID == "" {
		return
	}
	fin := currentPlayer(state).Finances
	err := cl.SaveState(cl.LocalState{
		APIBaseURL:      apiBase,
		SessionID:       state.SessionID,
		LastRound:       state.CurrentRound,
		LastCashMicros:  fin.CashOnHandMicros,
		LastWorthMicros: fin.NetWorthMicros,
	})
	if err != nil {
		printWarn("Could not save local state: " + err.Error())
	}
}
