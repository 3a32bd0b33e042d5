// Package ledger keeps an append-only archive of settled sessions.
//
// Every settlement becomes a Block whose hash covers the previous block's
// hash, so editing or reordering any archived result breaks the chain.
// Verify walks the whole chain and reports the first inconsistency.
//
// The session manager appends to the chain after a terminal transition has
// been stored; a session is archived at most once.
package ledger
