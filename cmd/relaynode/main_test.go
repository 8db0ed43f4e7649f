package main

import (
	"context"
	"os"
	"testing"
	"time"
)

// TestRun_InvalidConfig verifies run fails with invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	originalEnv := os.Getenv("RELAYNODE_CONFIG")
	defer os.Setenv("RELAYNODE_CONFIG", originalEnv)

	os.Setenv("RELAYNODE_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx)
	if err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

// TestGetConfigPath_Default verifies default config path.
func TestGetConfigPath_Default(t *testing.T) {
	originalEnv := os.Getenv("RELAYNODE_CONFIG")
	defer os.Setenv("RELAYNODE_CONFIG", originalEnv)

	os.Unsetenv("RELAYNODE_CONFIG")

	path := getConfigPath()
	if path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

// TestGetConfigPath_EnvOverride verifies environment variable override.
func TestGetConfigPath_EnvOverride(t *testing.T) {
	originalEnv := os.Getenv("RELAYNODE_CONFIG")
	defer os.Setenv("RELAYNODE_CONFIG", originalEnv)

	expected := "/custom/path/config.yaml"
	os.Setenv("RELAYNODE_CONFIG", expected)

	path := getConfigPath()
	if path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}
