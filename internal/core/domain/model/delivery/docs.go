// Package delivery contains the Delivery aggregate and its lifecycle state machine.
//
// A delivery is a shipment request posted by a sender, optionally mediated by a
// dispatch station. Its status moves through a closed state machine whose
// transitions are the only legal mutations; every transition is guarded by a
// precondition on the current status, and violations are typed business
// failures rather than infrastructure errors.
//
// The aggregate deliberately does not touch wallets or notifications: the
// capture engine composes the status transition with the wallet debit, ledger
// append, and outbox enqueue inside a single database transaction.
package delivery
