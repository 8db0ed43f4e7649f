// Package heartbeat periodically re-asserts the node's presence while
// the broker session is up: the retained online marker, the retained
// relay state, and the composed indicator status.
//
// Retained messages normally make this redundant, but a broker restart
// without persistence silently drops them; the heartbeat puts the
// truth back within one interval.
package heartbeat
