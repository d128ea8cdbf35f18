// Package outbox contains the transactional outbox message aggregate.
//
// The outbox decouples "decide to notify", which is fast and happens inside a
// business transaction, from "actually deliver the notification", which is slow,
// networked, and happens in a separate polling step. Rows move from pending to
// processing to sent, or back to pending with a capped exponential backoff, or
// to failed once the retry budget runs out.
package outbox
