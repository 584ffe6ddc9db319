package ui

import "testing"

func TestBuildAckCallback(t *testing.T) {
	data, err := BuildAckCallback(1)
	if err != nil {
		t.Fatalf("BuildAckCallback returned error: %v", err)
	}
	if data != "m:ack:1" {
		t.Fatalf("expected m:ack:1, got %q", data)
	}

	if _, err := BuildAckCallback(3); err == nil {
		t.Fatalf("expected error for invalid slot")
	}
}

func TestParseAckCallback(t *testing.T) {
	tests := []struct {
		data     string
		wantSlot int
		wantErr  bool
	}{
		{"m:ack:1", 1, false},
		{"m:ack:2", 2, false},
		{"m:ack:3", 0, true},
		{"m:ack:", 0, true},
		{"s:home", 0, true},
		{"", 0, true},
	}
	for _, tc := range tests {
		slot, err := ParseAckCallback(tc.data)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("expected error for %q", tc.data)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tc.data, err)
		}
		if slot != tc.wantSlot {
			t.Fatalf("expected slot %d for %q, got %d", tc.wantSlot, tc.data, slot)
		}
	}
}

func TestParseAckCallbackRoundTrip(t *testing.T) {
	for _, slot := range []int{1, 2} {
		data, err := BuildAckCallback(slot)
		if err != nil {
			t.Fatalf("BuildAckCallback(%d) returned error: %v", slot, err)
		}
		parsed, err := ParseAckCallback(data)
		if err != nil {
			t.Fatalf("ParseAckCallback(%q) returned error: %v", data, err)
		}
		if parsed != slot {
			t.Fatalf("round trip mismatch: %d != %d", parsed, slot)
		}
	}
}
