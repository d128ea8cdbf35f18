// Package wallet contains the financial aggregates of the dispatch system:
// the courier wallet with its negative credit floor, the append-only ledger,
// and the station commission wallet.
//
// All amounts are exact decimals. The wallet does the arithmetic and emits
// ledger entries; persistence, row locking, and the uniqueness constraint on
// (courier, delivery, entry type) live in the storage layer. Balance-changing
// methods must only be called on a wallet loaded under an exclusive row lock.
package wallet
