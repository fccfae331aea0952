package models

import "testing"

func TestDeriveKitStatus(t *testing.T) {
	tests := []struct {
		name    string
		members []string
		want    string
	}{
		{"no members", nil, StatusEmpty},
		{"all available", []string{StatusAvailable, StatusAvailable}, StatusAvailable},
		{"one in use", []string{StatusAvailable, StatusInUse, StatusAvailable}, StatusInUse},
		{"in use wins over reserved", []string{StatusReserved, StatusInUse}, StatusInUse},
		{"one reserved", []string{StatusAvailable, StatusReserved}, StatusReserved},
		{"all reserved", []string{StatusReserved, StatusReserved}, StatusReserved},
		{"single available", []string{StatusAvailable}, StatusAvailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveKitStatus(tt.members); got != tt.want {
				t.Errorf("DeriveKitStatus(%v) = %q, want %q", tt.members, got, tt.want)
			}
		})
	}
}

// Recomputing with the same snapshot must always yield the same result.
func TestDeriveKitStatusIdempotent(t *testing.T) {
	members := []string{StatusAvailable, StatusReserved, StatusInUse}
	first := DeriveKitStatus(members)
	second := DeriveKitStatus(members)
	if first != second {
		t.Errorf("derived status changed without mutation: %q then %q", first, second)
	}
}
