// Package connectivity tracks the node's network link and broker
// session state and composes them into the coarse system status shown
// on the indicator.
//
// # Architecture
//
// The Tracker is a passive state machine. It does not watch anything
// itself: the link monitor and the MQTT session layer feed it through
// OnLinkState and OnSessionState callbacks, and on every transition it
// recomposes the seven-way status and pushes it to the configured
// StatusApplier (the LED controller in production).
//
// Composition gives the broker session precedence over the raw link: a
// connected session implies a working link, so the status reflects the
// relay position; a session error is only surfaced while the link
// itself is up, otherwise the link-level status wins.
//
// # Concurrency
//
// A single mutex guards both state fields so observers always see a
// consistent (link, session) pair. Callbacks into collaborators are
// made outside the lock.
package connectivity
