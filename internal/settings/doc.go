// Package settings persists the node's small mutable state across
// restarts: the global indicator brightness and the last custom effect
// pushed over the LED channel.
//
// Storage is a single key/value table in the node's SQLite database.
// The schema is created on first use; there is nothing to migrate.
package settings
