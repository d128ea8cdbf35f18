// Package courier provides the Courier aggregate as the core sees it: an
// identity on one messaging platform with approval and activity flags.
//
// Key business rules:
//   - Couriers must have a valid unique identifier, name, platform, and chat id
//   - Only approved couriers may request station-mediated deliveries
//   - Only active couriers receive broadcast notifications
//
// Wallets and ledger entries belong to the wallet package; this package holds
// no financial state.
package courier
