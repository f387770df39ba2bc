package phrase

import (
	"math/rand"
	"testing"
)

func TestForSlotDrawsFromPool(t *testing.T) {
	picker := NewPickerWithSource(rand.NewSource(1))

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		seen[picker.ForSlot(SlotMorning)] = true
	}

	if len(seen) < 2 {
		t.Fatalf("expected multiple distinct morning phrases, got %d", len(seen))
	}

	for text := range seen {
		found := false
		for _, candidate := range morningPhrases {
			if candidate == text {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("phrase %q not in morning pool", text)
		}
	}
}

func TestForSlotUnknownSlotFallsBack(t *testing.T) {
	picker := NewPickerWithSource(rand.NewSource(1))
	if got := picker.ForSlot(Slot("noon")); got != fallbackPhrase {
		t.Fatalf("unexpected phrase for unknown slot: %q", got)
	}
}

func TestMoodResponses(t *testing.T) {
	picker := NewPicker()

	for _, mood := range []Mood{MoodExcellent, MoodGood, MoodOK, MoodBad, MoodTerrible, MoodCustom} {
		if picker.MoodResponse(mood) == "" {
			t.Fatalf("empty response for mood %s", mood)
		}
	}

	if got := picker.MoodResponse(Mood("angry")); got != fallbackPhrase {
		t.Fatalf("unexpected response for unknown mood: %q", got)
	}
}

func TestValidMood(t *testing.T) {
	if !ValidMood(MoodOK) {
		t.Fatal("expected ok to be valid")
	}
	if ValidMood(Mood("angry")) {
		t.Fatal("expected angry to be invalid")
	}
}
