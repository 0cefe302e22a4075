// Package crawler implements the crawl engine.
//
// The engine drains the frontier store one task at a time (or with a bounded
// pool of workers), fetches each URL, records the outcome durably in the
// result store, and feeds newly discovered links back through the
// follow-policy into the frontier. The run ends when the frontier is empty
// and no worker is in flight.
//
// Per-URL failures never stop a crawl: they are absorbed into the stored
// record. Only store I/O errors are fatal, because losing crawl state
// silently would defeat the point of keeping it durable.
package crawler
