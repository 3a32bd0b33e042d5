package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/status"

	"github.com/luca-patrignani/action-cards/application"
	"github.com/luca-patrignani/action-cards/config"
	"github.com/luca-patrignani/action-cards/domain/game"
	"github.com/luca-patrignani/action-cards/domain/wager"
	apperrors "github.com/luca-patrignani/action-cards/errors"
	"github.com/luca-patrignani/action-cards/storage"
	"github.com/luca-patrignani/action-cards/storage/memory"
	"github.com/luca-patrignani/action-cards/storage/sqlite"
	"github.com/luca-patrignani/action-cards/telemetry"
)

const (
	optionSettle  = "settle now"
	optionForfeit = "forfeit"
	optionQuit    = "quit"
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	level, _ := config.ParseLogLevel(env.LogLevel)
	handler := pterm.NewSlogHandler(pterm.DefaultLogger.WithLevel(ptermLevel(level)))
	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, env, logger); err != nil {
		logger.Error("action cards stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, env config.Env, logger *slog.Logger) error {
	balance, err := config.LoadBalance(env.BalancePath)
	if err != nil {
		return err
	}
	shutdown, err := telemetry.Setup(ctx, "action-cards", telemetry.Options{
		Enabled:  env.OTelEnabled,
		Endpoint: env.OTelEndpoint,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("tracer shutdown", "error", err)
		}
	}()

	store, closeStore, err := openStore(env)
	if err != nil {
		return err
	}
	defer closeStore()

	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("A", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("ction ", pterm.FgDarkGray.ToStyle()),
		putils.LettersFromStringWithStyle("C", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("ards", pterm.FgDarkGray.ToStyle()),
	).Render()

	name, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("Enter your character name").WithDefaultValue("drifter").Show()
	name = strings.TrimSpace(name)
	pterm.Println()

	skillNames := make([]string, 0, len(balance.SkillSuits))
	for s := range balance.SkillSuits {
		skillNames = append(skillNames, s)
	}
	slices.Sort(skillNames)
	skill, _ := pterm.DefaultInteractiveSelect.WithDefaultText("Which skill are you using?").WithOptions(skillNames).Show()
	levelText, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("Your skill level (0-100)").WithDefaultValue("40").Show()
	skillLevel, err := strconv.Atoi(strings.TrimSpace(levelText))
	if err != nil {
		return fmt.Errorf("skill level: %w", err)
	}
	pterm.Info.Printfln("%s plays with %s %d (relevant suit: %s)", pterm.LightCyan(name), skill, skillLevel, balance.SuitFor(skill))

	manager, err := application.NewManager(application.Options{
		Store:            store,
		Balance:          &balance,
		Skills:           application.StaticSkills{name: {skill: skillLevel}},
		Energy:           application.UnlimitedEnergy{},
		Logger:           logger,
		DefaultTimeLimit: env.DefaultTimeLimit,
	})
	if err != nil {
		return err
	}
	go sweep(ctx, manager, logger, 30*time.Second)

	for ctx.Err() == nil {
		types := []string{}
		for _, t := range manager.Types() {
			types = append(types, string(t))
		}
		types = append(types, optionQuit)
		choice, _ := pterm.DefaultInteractiveSelect.WithDefaultText("Pick a game").WithOptions(types).Show()
		if choice == optionQuit {
			break
		}
		req, err := askStart(name, skill, game.Type(choice))
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		id, err := manager.StartSession(ctx, req)
		if err != nil {
			pterm.Error.Println(describeError(err))
			continue
		}
		if err := play(ctx, manager, id); err != nil {
			return err
		}
	}
	if err := manager.Archive().Verify(); err != nil {
		return fmt.Errorf("settlement archive: %w", err)
	}
	pterm.Success.Printfln("%d sessions archived", manager.Archive().Len()-1)
	return nil
}

func openStore(env config.Env) (storage.Store, func(), error) {
	if env.Store == config.StoreSQLite {
		s, err := sqlite.Open(env.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	}
	return memory.New(), func() {}, nil
}

func askStart(actor, skill string, t game.Type) (application.StartRequest, error) {
	diffText, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("Difficulty (1-10)").WithDefaultValue("3").Show()
	difficulty, err := strconv.Atoi(strings.TrimSpace(diffText))
	if err != nil {
		return application.StartRequest{}, fmt.Errorf("difficulty: %w", err)
	}
	req := application.StartRequest{
		ActorID:    actor,
		GameType:   t,
		Difficulty: difficulty,
		Skill:      skill,
	}
	if bet, _ := pterm.DefaultInteractiveConfirm.WithDefaultText("Place a wager?").WithDefaultValue(false).Show(); bet {
		amountText, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("Stake").WithDefaultValue("50").Show()
		amount, err := strconv.ParseInt(strings.TrimSpace(amountText), 10, 64)
		if err != nil {
			return application.StartRequest{}, fmt.Errorf("stake: %w", err)
		}
		req.Wager = &wager.Stake{Amount: amount}
	}
	return req, nil
}

func play(ctx context.Context, manager *application.Manager, id string) error {
	for {
		v, err := manager.GetSessionState(ctx, id, false)
		if err != nil {
			return err
		}
		printState(v)
		if v.Result != nil {
			printResult(*v.Result)
			return nil
		}
		if len(v.Actions) == 0 {
			res, err := manager.Settle(ctx, id)
			if err != nil {
				return err
			}
			printResult(res)
			return nil
		}

		options := make([]string, 0, len(v.Actions)+2)
		for _, a := range v.Actions {
			options = append(options, string(a))
		}
		options = append(options, optionSettle, optionForfeit)
		choice, _ := pterm.DefaultInteractiveSelect.WithDefaultText("Select your next action").WithOptions(options).Show()

		switch choice {
		case optionSettle:
			res, err := manager.Settle(ctx, id)
			if err != nil {
				return err
			}
			printResult(res)
			return nil
		case optionForfeit:
			if ok, _ := pterm.DefaultInteractiveConfirm.WithDefaultText("Really forfeit?").WithDefaultValue(false).Show(); !ok {
				continue
			}
			if err := manager.Forfeit(ctx, id); err != nil {
				return err
			}
			continue
		}

		action := askAction(game.ActionType(choice), v)
		if _, err := manager.SubmitAction(ctx, id, action); err != nil {
			if apperrors.CodeOf(err).Fatal() || errors.Is(err, context.Canceled) {
				return err
			}
			pterm.Error.Println(describeError(err))
		}
	}
}

func askAction(t game.ActionType, v game.View) game.Action {
	a := game.Action{Type: t}
	labels := cardLabels(v.Hand)
	switch t {
	case game.ActionHold:
		held, _ := pterm.DefaultInteractiveMultiselect.WithDefaultText("Cards to hold").WithOptions(labels).Show()
		a.Indices = indicesOf(labels, held)
	case game.ActionDiscard:
		dropped, _ := pterm.DefaultInteractiveMultiselect.WithDefaultText("Cards to discard").WithOptions(labels).Show()
		a.Indices = indicesOf(labels, dropped)
	case game.ActionReroll:
		if v.Duel != nil {
			picked, _ := pterm.DefaultInteractiveMultiselect.WithDefaultText("Cards to reroll").WithOptions(labels).Show()
			a.Indices = indicesOf(labels, picked)
		}
	case game.ActionPeek:
		if v.Duel != nil {
			hidden := []string{}
			for i, c := range v.Duel.OpponentCards {
				if !c.Valid() {
					hidden = append(hidden, strconv.Itoa(i+1))
				}
			}
			picked, _ := pterm.DefaultInteractiveSelect.WithDefaultText("Opponent card to peek").WithOptions(hidden).Show()
			if n, err := strconv.Atoi(picked); err == nil {
				a.Indices = []int{n - 1}
			}
		}
	case game.ActionAssign:
		attack, _ := pterm.DefaultInteractiveMultiselect.WithDefaultText("Cards to attack with, the rest defend").WithOptions(labels).Show()
		a.Attack = indicesOf(labels, attack)
		a.Defense = complement(len(labels), a.Attack)
	}
	return a
}

// sweep expires overdue sessions until ctx is done.
func sweep(ctx context.Context, manager *application.Manager, logger *slog.Logger, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := manager.ExpireOverdue(ctx); err != nil {
				logger.Warn("expire overdue sessions", "error", err)
			}
		}
	}
}

func ptermLevel(l slog.Level) pterm.LogLevel {
	switch {
	case l <= slog.LevelDebug:
		return pterm.LogLevelDebug
	case l <= slog.LevelInfo:
		return pterm.LogLevelInfo
	case l <= slog.LevelWarn:
		return pterm.LogLevelWarn
	default:
		return pterm.LogLevelError
	}
}

// describeError prefixes err with the status a transport would report for it.
func describeError(err error) string {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		return err.Error()
	}
	st, _ := status.FromError(appErr.ToGRPCStatus())
	reason := string(appErr.Code)
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok {
			reason = info.GetReason()
		}
	}
	return fmt.Sprintf("[%s %s] %s", st.Code(), reason, err.Error())
}
