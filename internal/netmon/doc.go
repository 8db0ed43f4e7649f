// Package netmon watches the node's network interface through the
// kernel's netlink link notifications and translates operational state
// changes into the connectivity tracker's link callbacks.
//
// Only events for the configured interface are acted on; everything
// else on the netlink socket is ignored. The current state is probed
// once at startup so the tracker does not have to wait for the first
// kernel event.
package netmon
