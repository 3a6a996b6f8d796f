// Package identity owns persistence of user records.
//
// A user record is keyed by its unique login. The store assigns the numeric
// id (derived from creation time) and the initial session token; all later
// writes are whole-record replaces via Update. Records are never deleted.
//
// Three implementations share the Store contract: an in-memory map for
// tests and dev, SQLite for single-node durable storage, and Postgres for
// production.
package identity
