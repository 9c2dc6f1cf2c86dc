// Package store provides persistent storage for the demo backend using SQLite.
//
// # Data Models
//
//   - Conversation: One visitor's exchange with one webhook key, identified
//     by the (webhook_key, sender_id) pair
//   - Message: Individual turn with a role (user or assistant)
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// Use NewSQLiteStore(":memory:") for tests with a real in-memory database.
//
// # Error Handling
//
//   - ErrNotFound: Requested entity does not exist
//
// All methods accept context.Context for cancellation support.
package store
