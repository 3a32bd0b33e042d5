// Package game implements the card minigames that resolve an in-game action.
//
// # Resolvers
//
// Every minigame is a Resolver: Init deals a fresh State, Apply validates and
// applies one player Action, IsTerminal reports when the game rules end the
// game, and Settle turns a State into a scored Result. Apply never mutates
// its input; a rejected action leaves the caller's State untouched.
//
// # Registry
//
// The set of minigames is closed. NewRegistry registers Draw Poker,
// Blackjack, Press-Your-Luck, Deckbuilder and Combat Duel; looking up any
// other type fails with an UNSUPPORTED_GAME_TYPE error.
//
// # Scoring
//
// A game produces a raw score, the skill bonus is added, and the total is
// compared with a target that grows with difficulty. Some outcomes (busting,
// losing a blackjack hand, being knocked out) fail regardless of the score.
//
// # Hidden information
//
// View renders a State for a client. Unless privileged it hides the deck,
// the dealer's hole card and the opponent's unrevealed duel cards.
package game
