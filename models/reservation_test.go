package models

import (
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd int
		want                       bool
	}{
		{"identical ranges", 10, 12, 10, 12, true},
		{"contained", 10, 20, 12, 14, true},
		{"partial front", 10, 12, 11, 15, true},
		{"partial back", 11, 15, 10, 12, true},
		{"shared boundary day", 10, 12, 12, 14, true},
		{"shared boundary day reversed", 12, 14, 10, 12, true},
		{"adjacent no overlap", 10, 12, 13, 15, false},
		{"disjoint", 1, 3, 10, 12, false},
		{"single day equal", 5, 5, 5, 5, true},
		{"single day disjoint", 5, 5, 6, 6, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(day(tt.aStart), day(tt.aEnd), day(tt.bStart), day(tt.bEnd))
			if got != tt.want {
				t.Errorf("Overlaps(%d-%d, %d-%d) = %v, want %v",
					tt.aStart, tt.aEnd, tt.bStart, tt.bEnd, got, tt.want)
			}
		})
	}
}

func TestReservationTarget(t *testing.T) {
	eq := "e1"
	kit := "k1"

	r := Reservation{EquipmentID: &eq}
	if r.TargetKind() != TargetEquipment || r.TargetID() != "e1" {
		t.Errorf("equipment target: got kind=%s id=%s", r.TargetKind(), r.TargetID())
	}

	r = Reservation{KitID: &kit}
	if r.TargetKind() != TargetKit || r.TargetID() != "k1" {
		t.Errorf("kit target: got kind=%s id=%s", r.TargetKind(), r.TargetID())
	}
}

func TestReservationActive(t *testing.T) {
	for status, want := range map[string]bool{
		ReservationScheduled: true,
		ReservationInUse:     true,
		ReservationCompleted: false,
		ReservationCancelled: false,
	} {
		r := Reservation{Status: status}
		if r.Active() != want {
			t.Errorf("Active() for %s = %v, want %v", status, r.Active(), want)
		}
	}
}
