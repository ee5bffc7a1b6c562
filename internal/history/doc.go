// Package history provides a SQLite-backed ledger of assertion outcomes.
//
// Every expect assertion can append one entry naming the test, the
// artifact extension, the outcome and BLAKE3 digests of both artifacts.
// The ledger is append-only; the files under .expect remain the source of
// truth for what is accepted.
//
// # Ordering
//
// Entries are ordered by seq, an autoincrement logical clock. Wall time is
// never recorded, so two ledgers built from the same runs read identically.
//
// # Runs
//
// Each Open registers a fresh UUIDv7 run ID. Shared caches one Ledger per
// path for the life of the process, so all tests in one test binary record
// under the same run.
package history
