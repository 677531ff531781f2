// Package subscription manages tenant billing state: the static plan
// catalog, the subscription status machine, and reconciliation of
// billing-provider webhook events.
//
// All status changes flow through a single transition authority
// (transition.go). Webhook application is idempotent and last-write-wins:
// the provider guarantees at-least-once delivery with no ordering, so the
// reconciler projects each event onto the status and period-end fields
// rather than treating deliveries as an ordered log. Plan changes rewrite
// the limits snapshot in the same atomic record update as the status, so a
// tenant is never observed with mismatched status and limits.
package subscription
