package main

import (
	"os"
	"testing"

	"finlink/cmd"
)

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}

func TestVersion(t *testing.T) {
	if version != "dev" {
		t.Errorf("Expected default version to be 'dev', got %s", version)
	}

	testVersion := "1.2.3"
	version = testVersion
	if version != testVersion {
		t.Errorf("Expected version to be %s, got %s", testVersion, version)
	}

	version = "dev"
}

func TestSetVersionWiring(t *testing.T) {
	defer cmd.SetVersion(cmd.GetVersion())

	cmd.SetVersion("9.9.9")
	if cmd.GetVersion() != "9.9.9" {
		t.Errorf("Expected injected version to be 9.9.9, got %s", cmd.GetVersion())
	}
}
