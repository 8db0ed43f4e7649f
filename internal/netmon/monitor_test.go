package netmon

import (
	"net"
	"testing"

	"github.com/vishvananda/netlink"

	"github.com/nerrad567/relay-node/internal/connectivity"
)

func TestMapLinkState(t *testing.T) {
	tests := []struct {
		name  string
		oper  netlink.LinkOperState
		flags net.Flags
		want  connectivity.LinkState
	}{
		{
			name:  "oper up",
			oper:  netlink.OperUp,
			flags: net.FlagUp | net.FlagRunning,
			want:  connectivity.LinkConnected,
		},
		{
			name:  "dormant is connecting",
			oper:  netlink.OperDormant,
			flags: net.FlagUp,
			want:  connectivity.LinkConnecting,
		},
		{
			name:  "oper down admin up is connecting",
			oper:  netlink.OperDown,
			flags: net.FlagUp,
			want:  connectivity.LinkConnecting,
		},
		{
			name: "oper down admin down",
			oper: netlink.OperDown,
			want: connectivity.LinkDisconnected,
		},
		{
			name:  "lower layer down",
			oper:  netlink.OperLowerLayerDown,
			flags: net.FlagUp,
			want:  connectivity.LinkConnecting,
		},
		{
			name:  "unknown oper with admin up",
			oper:  netlink.OperUnknown,
			flags: net.FlagUp,
			want:  connectivity.LinkConnected,
		},
		{
			name: "unknown oper with admin down",
			oper: netlink.OperUnknown,
			want: connectivity.LinkDisconnected,
		},
		{
			name: "not present",
			oper: netlink.OperNotPresent,
			want: connectivity.LinkDisconnected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapLinkState(tt.oper, tt.flags); got != tt.want {
				t.Errorf("mapLinkState(%v, %v) = %v, want %v", tt.oper, tt.flags, got, tt.want)
			}
		})
	}
}

func TestMonitor_StopBeforeStart(t *testing.T) {
	m := NewMonitor("eth0", func(connectivity.LinkState) {})

	// Must be a safe no-op.
	m.Stop()
	m.Stop()
}
