package mqtt

import (
	"testing"
)

func TestCloseNil(t *testing.T) {
	client := &Client{}
	err := client.Close()
	if err != nil {
		t.Errorf("Close() on nil client error = %v, want nil", err)
	}
}

func TestIsConnected_InitialState(t *testing.T) {
	client := &Client{}

	if client.IsConnected() {
		t.Error("IsConnected() should be false for uninitialised client")
	}
}

func TestTopicBuilders(t *testing.T) {
	topics := Topics{Device: "relay-node-001"}

	tests := []struct {
		name     string
		builder  func() string
		expected string
	}{
		{
			name:     "Status",
			builder:  topics.Status,
			expected: "relay-node-001/status",
		},
		{
			name:     "RelaySet",
			builder:  topics.RelaySet,
			expected: "relay-node-001/relay/set",
		},
		{
			name:     "RelayState",
			builder:  topics.RelayState,
			expected: "relay-node-001/relay/state",
		},
		{
			name:     "LEDSet",
			builder:  topics.LEDSet,
			expected: "relay-node-001/led/set",
		},
		{
			name:     "LEDBrightness",
			builder:  topics.LEDBrightness,
			expected: "relay-node-001/led/brightness",
		},
		{
			name:     "All",
			builder:  topics.All,
			expected: "relay-node-001/#",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.builder()
			if result != tt.expected {
				t.Errorf("%s() = %q, want %q", tt.name, result, tt.expected)
			}
		})
	}
}
