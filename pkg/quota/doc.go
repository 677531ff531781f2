// Package quota enforces per-company plan limits.
//
// The gate authorizes quota-consuming operations (seats, assets, monthly
// inspections, AI analysis) against the company's limits snapshot and
// subscription status. Check-then-increment executes as one atomic record
// update per company, so for any set of concurrent requests the final
// counters correspond to some sequential ordering of them and never exceed
// the limit. Denials are ordinary results with stable reason codes; system
// faults (unknown tenant, corrupted record, conflict exhaustion) surface as
// errors.
package quota
