package models

import "testing"

func TestSequenceForShiftOrder(t *testing.T) {
	morning := SequenceForShift(ShiftMorning)
	wantMorning := []string{
		EventTreasuryArrival,
		EventCustodianHandover,
		EventOpeningMorning,
		EventPackingMorning,
		EventDeliveryMorning,
	}
	if len(morning) != len(wantMorning) {
		t.Fatalf("morning sequence has %d steps, want %d", len(morning), len(wantMorning))
	}
	for i, want := range wantMorning {
		if morning[i] != want {
			t.Errorf("morning[%d] = %s, want %s", i, morning[i], want)
		}
	}

	afternoon := SequenceForShift(ShiftAfternoon)
	if afternoon[2] != EventOpeningAfternoon || afternoon[4] != EventDeliveryAfternoon {
		t.Errorf("afternoon sequence should use afternoon steps, got %v", afternoon)
	}

	// Papers arrive and change hands once, whatever the shift.
	if afternoon[0] != EventTreasuryArrival || afternoon[1] != EventCustodianHandover {
		t.Errorf("both sequences must share the first two steps, got %v", afternoon[:2])
	}
}

func TestSequenceForEventPicksContainingSequence(t *testing.T) {
	seq := SequenceForEvent(EventPackingAfternoon)
	found := false
	for _, s := range seq {
		if s == EventPackingAfternoon {
			found = true
		}
	}
	if !found {
		t.Errorf("sequence for PACKING_AFTERNOON must contain it, got %v", seq)
	}
}

func TestShiftForEvent(t *testing.T) {
	cases := map[string]string{
		EventTreasuryArrival:   ShiftGeneral,
		EventCustodianHandover: ShiftGeneral,
		EventOpeningMorning:    ShiftMorning,
		EventPackingMorning:    ShiftMorning,
		EventDeliveryAfternoon: ShiftAfternoon,
	}
	for eventType, want := range cases {
		if got := ShiftForEvent(eventType); got != want {
			t.Errorf("ShiftForEvent(%s) = %s, want %s", eventType, got, want)
		}
	}
}

func TestWindowKeyForEvent(t *testing.T) {
	cases := map[string]string{
		EventTreasuryArrival:   WindowTreasuryArrival,
		EventCustodianHandover: WindowCustodianHandover,
		EventOpeningMorning:    WindowOpening,
		EventOpeningAfternoon:  WindowOpening,
		EventPackingMorning:    WindowPacking,
		EventDeliveryAfternoon: WindowDelivery,
	}
	for eventType, want := range cases {
		if got := WindowKeyForEvent(eventType); got != want {
			t.Errorf("WindowKeyForEvent(%s) = %s, want %s", eventType, got, want)
		}
	}
	if WindowKeyForEvent("NOT_A_STEP") != "" {
		t.Error("unknown event type must map to no window")
	}
}

func TestIsValidEventType(t *testing.T) {
	for _, eventType := range AllEventTypes {
		if !IsValidEventType(eventType) {
			t.Errorf("%s should be valid", eventType)
		}
	}
	if IsValidEventType("TREASURY_DEPARTURE") {
		t.Error("unknown type should be invalid")
	}
}
