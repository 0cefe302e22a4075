// Package store provides the durable crawl state for linkpatrol.
//
// A crawl named <name> is backed by two independent SQLite files under the
// data directory:
//   - <name>.frontier: discovered-but-not-yet-visited URLs with their trails
//   - <name>.results: one record per visited URL
//
// Both files are created on first use, reopened on restart, and never deleted
// by the engine, so an interrupted crawl resumes from whatever state was
// durably written.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of a
// hand-rolled file format because:
//  1. No external dependencies - each store is a single file
//  2. CGO-free implementation allows easy cross-compilation
//  3. Transactions with synchronous=FULL give us the durable-put guarantee
//     the resume semantics depend on
//  4. WAL mode provides good read performance while a crawl is writing
package store
