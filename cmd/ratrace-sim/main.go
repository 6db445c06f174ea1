// ratrace-sim runs headless sessions end to end: a naive buy-and-hold
// strategy against the real engine, useful for balancing professions and
// smoke-testing a build without the API or CLI in the way.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"ratrace/internal/config"
	"ratrace/internal/events"
	"ratrace/internal/game"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	cfg := config.LoadAPIFromEnv()

	professionID := os.Getenv("RATRACE_SIM_PROFESSION")
	if professionID == "" {
		professionID = "engineer"
	}
	prof, err := game.ProfessionByID(professionID)
	if err != nil {
		logger.Error("unknown profession", "id", professionID, "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	gen, err := events.NewGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
	if err != nil {
		logger.Error("event generator init failed", "err", err)
		os.Exit(1)
	}
	defer gen.Close()

	session := game.NewSession(logger, cfg.ErrorTTL)
	session.Init(game.NewPlayer(prof, "Sim", 25), cfg.MaxRounds)

	for {
		state, _ := session.State()
		if state.Phase == game.PhaseCompleted {
			break
		}
		player, _ := session.CurrentPlayer()

		// Naive strategy: sweep spare cash into rental units whenever the
		// buffer allows, one per round.
		if player.Finances.CashOnHandMicros >= 10_000*game.MicrosPerBuck {
			deal := game.Asset{
				ID:                  uuid.NewString(),
				Type:                game.AssetRealEstate,
				Name:                fmt.Sprintf("Rental Unit %d", len(player.Assets)+1),
				PurchasePriceMicros: 5_000 * game.MicrosPerBuck,
				CurrentValueMicros:  5_000 * game.MicrosPerBuck,
				MonthlyIncomeMicros: 120 * game.MicrosPerBuck,
				Risk:                game.RiskMedium,
				LiquidityDays:       30,
				PurchaseRound:       state.CurrentRound,
			}
			if err := session.BuyAsset(deal); err != nil {
				logger.Warn("deal rejected", "err", err)
			}
		}

		// One life event per simulated year, always taking the first choice.
		if state.CurrentRound%12 == 0 {
			ev := gen.GenerateLifeEvent(ctx, player, state)
			if err := session.PushEvent(ev); err == nil && len(ev.Choices) > 0 {
				_ = session.ResolveEvent(ev.ID, ev.Choices[0].ID)
			}
		}

		if err := session.AdvanceRound(); err != nil {
			logger.Error("advance failed", "err", err)
			os.Exit(1)
		}
	}

	state, _ := session.State()
	player, _ := session.CurrentPlayer()
	logger.Info("simulation finished",
		"profession", professionID,
		"rounds", state.CurrentRound-1,
		"won", state.WinnerID != "",
		"assets", len(player.Assets),
		"passive_income_micros", player.Finances.PassiveIncomeMicros,
		"expenses_micros", player.Finances.MonthlyExpensesMicros,
		"net_worth_micros", player.Finances.NetWorthMicros,
		"decisions", len(player.Decisions))
}
