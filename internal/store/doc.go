// Package store provides durable storage for assessment drafts.
//
// Drafts form an append-only log: every save inserts a new immutable
// record and nothing is ever updated in place. A session's "latest" draft
// is the record with the greatest metadata.updatedAt; among equal
// timestamps the record inserted first wins.
//
// # Layers
//
//   - Backend: the storage contract. SQLite is the durable default,
//     Memory is the in-process fake, Redis serves shared deployments.
//   - Drafts: the retention and failure policy on top of a Backend.
//     Writes surface errors; reads degrade to empty results.
//   - Janitor: periodic retention sweeps scheduled on the Drafts clock.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Reads return empty slices (never nil) in a deterministic order.
package store
