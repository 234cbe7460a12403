// Package store keeps the build ledger: an SQLite record of every build run
// and the objects it produced.
//
// The ledger is informational. Tools are resolved again on every run and
// nothing here is consulted to decide what to build.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: artifacts cascade with their run
//
// Runs are ordered newest first by start time, then by ID. Run IDs are
// UUIDv7, so the ID order agrees with creation order.
package store
