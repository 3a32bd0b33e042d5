package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/luca-patrignani/action-cards/domain/deck"
	"github.com/luca-patrignani/action-cards/domain/game"
)

// cardLabels numbers the cards so that equal looking labels stay distinct.
func cardLabels(cards []deck.Card) []string {
	labels := make([]string, len(cards))
	for i, c := range cards {
		labels[i] = fmt.Sprintf("%d: %s", i+1, c.String())
	}
	return labels
}

// indicesOf maps selected labels back to their positions in options.
func indicesOf(options, selected []string) []int {
	idx := []int{}
	for i, o := range options {
		for _, s := range selected {
			if s == o {
				idx = append(idx, i)
				break
			}
		}
	}
	return idx
}

// complement returns every index in [0, n) missing from idx.
func complement(n int, idx []int) []int {
	taken := make(map[int]bool, len(idx))
	for _, i := range idx {
		taken[i] = true
	}
	rest := []int{}
	for i := 0; i < n; i++ {
		if !taken[i] {
			rest = append(rest, i)
		}
	}
	return rest
}

func joinCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return "-"
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " - ")
}

func printState(v game.View) {
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	hand := pterm.BgGreen.Sprint(" " + joinCards(v.Hand) + " ")
	body := pbox.WithTitle(pterm.LightCyan(string(v.GameType))).WithTitleTopLeft().Sprintf(
		"%s\nDifficulty: %d   Suit: %s\nTurn %d, %d left\n",
		hand, v.Difficulty, v.RelevantSuit, v.TurnCount, v.TurnsRemaining)

	remaining := time.Until(v.ExpiresAt).Round(time.Second)
	info := pbox.WithTitle("|SKILL|").WithTitleTopCenter().Sprintf(
		"Bonus: %.2f\nRerolls: %d  Peeks: %d\nDeck: %d cards\nTime left: %s",
		v.Modifiers.TotalBonus, v.RerollsLeft, v.PeeksLeft, v.DeckCount, remaining)

	row := []pterm.Panel{{Data: body}, {Data: info}}
	if extra := variantInfo(v); extra != "" {
		row = append(row, pterm.Panel{Data: pbox.WithTitle(pterm.LightYellow("|TABLE|")).WithTitleTopCenter().Sprint(extra)})
	}
	panels := [][]pterm.Panel{row}
	if len(v.Peeked) > 0 || len(v.Discard) > 0 {
		panels = append(panels, []pterm.Panel{{Data: pbox.Sprintf("Peeked: %s\nDiscard: %s", joinCards(v.Peeked), joinCards(v.Discard))}})
	}
	pterm.DefaultPanel.WithPanels(panels).Render()
}

func variantInfo(v game.View) string {
	switch {
	case v.Blackjack != nil:
		bj := v.Blackjack
		s := fmt.Sprintf("Dealer: %s (%d)\nYou: %d", joinCards(bj.DealerCards), bj.DealerValue, bj.PlayerValue)
		if bj.IsNatural {
			s += "\n" + pterm.LightGreen("Natural!")
		}
		if bj.Insured {
			s += "\nInsured"
		}
		return s
	case v.PressLuck != nil:
		pl := v.PressLuck
		s := fmt.Sprintf("Total: %d\nDraws: %d", pl.Total, pl.Draws)
		if len(pl.Avoided) > 0 {
			s += "\nDodged: " + joinCards(pl.Avoided)
		}
		return s
	case v.Deckbuilder != nil:
		return fmt.Sprintf("Draws used: %d\nDiscards used: %d", v.Deckbuilder.DrawsUsed, v.Deckbuilder.DiscardsUsed)
	case v.Duel != nil:
		d := v.Duel
		s := fmt.Sprintf("Round %d/%d\nHP %d vs %d\nOpponent: %s", d.Round, d.Rounds, d.PlayerHP, d.OpponentHP, joinCards(d.OpponentCards))
		if n := len(d.Log); n > 0 {
			last := d.Log[n-1]
			s += fmt.Sprintf("\nLast: dealt %d, took %d", last.DamageDealt, last.DamageTaken)
		}
		return s
	}
	return ""
}

func printResult(res game.Result) {
	title := pterm.LightRed("|FAILED|")
	if res.Success {
		title = pterm.LightGreen("|SUCCESS|")
	}
	data := pterm.TableData{{"", "points"}}
	for _, c := range res.Breakdown {
		data = append(data, []string{c.Label, strconv.FormatFloat(c.Value, 'f', 2, 64)})
	}
	data = append(data,
		[]string{"score", strconv.FormatFloat(res.Score, 'f', 2, 64)},
		[]string{"target", strconv.FormatFloat(res.Target, 'f', 2, 64)},
	)
	table, _ := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()

	summary := pterm.Sprintfln("%s (%s)", res.HandDescription, res.Status)
	summary += pterm.Sprintfln("Grade: %s x%.1f", res.RewardsHint.Grade, res.RewardsHint.Multiplier)
	if res.BailedOut {
		summary += pterm.Sprintfln("Payout: %d (bailed out)", res.Payout)
	} else if res.Payout > 0 {
		summary += pterm.Sprintfln("Payout: %d", res.Payout)
	}
	summary += pterm.Sprintf("Streak: %d", res.Streak)

	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	pterm.DefaultPanel.WithPanels([][]pterm.Panel{{
		{Data: pbox.WithTitle(title).WithTitleTopCenter().Sprint(summary)},
		{Data: table},
	}}).Render()
}
