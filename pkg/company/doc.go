// Package company holds the tenant record: identity, subscription state,
// the active limits snapshot, and live usage counters.
//
// A company is the unit of billing and quota. Its record is mutated only
// through Store.Update, which guarantees that a read-check-write sequence on
// one company is never interleaved by another writer on the same company,
// while companies never contend with each other. Two store implementations
// are provided: an in-memory arena with one mutex per record, and a
// PostgreSQL store using row-level optimistic concurrency with bounded
// retries.
package company
