package llm

import (
	"strings"
	"testing"
)

func TestNewClient_MissingKey(t *testing.T) {
	_, err := NewClient("", "")
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
	if !strings.Contains(err.Error(), "API key") {
		t.Errorf("error should mention the API key, got: %v", err)
	}
}

func TestNewClient_WithKey(t *testing.T) {
	client, err := NewClient("sk-test", "")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client == nil {
		t.Fatal("expected non-nil client")
	}
}

func TestNewClient_CustomBaseURL(t *testing.T) {
	client, err := NewClient("sk-test", "http://localhost:11434/v1")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client == nil {
		t.Fatal("expected non-nil client")
	}
}
