// Package poker evaluates poker hands of five to seven cards.
//
// # Categories
//
// Hands are ranked from 1 (Royal Flush) to 10 (High Card); a lower category
// always beats a higher one. Within a category, Tiebreakers are compared
// lexicographically and the higher value wins.
//
// # Special cases
//
// The wheel A-2-3-4-5 is a five-high straight. A Royal Flush is strictly
// 10-J-Q-K-A of one suit. With six or seven cards every five card subset is
// evaluated and the strongest one is kept.
//
// # Reference evaluator
//
// Describe and ReferenceStrength7 delegate to github.com/paulhankin/poker,
// which serves as an independent oracle for the native evaluator.
package poker
