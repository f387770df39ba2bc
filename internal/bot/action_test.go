package bot

import (
	"errors"
	"testing"

	"github.com/warmly/bot/internal/phrase"
)

func TestDecodeAction(t *testing.T) {
	cases := []struct {
		data string
		want Action
	}{
		{"mood", Action{Kind: ActionMoodMenu}},
		{"mood:good", Action{Kind: ActionMoodPick, Mood: phrase.MoodGood}},
		{"mood:terrible", Action{Kind: ActionMoodPick, Mood: phrase.MoodTerrible}},
		{"custom", Action{Kind: ActionCustomMood}},
		{"motivation", Action{Kind: ActionMotivation}},
		{"save", Action{Kind: ActionSaveLast}},
		{"archive", Action{Kind: ActionShowArchive}},
		{"del:12", Action{Kind: ActionDeleteFavorite, FavoriteID: 12}},
		{"clear", Action{Kind: ActionClearArchive}},
		{"stats", Action{Kind: ActionShowStats}},
		{"menu", Action{Kind: ActionMainMenu}},
		{" mood ", Action{Kind: ActionMoodMenu}},
	}

	for _, tc := range cases {
		got, err := DecodeAction(tc.data)
		if err != nil {
			t.Errorf("DecodeAction(%q) returned error: %v", tc.data, err)
			continue
		}
		if got != tc.want {
			t.Errorf("DecodeAction(%q) = %+v, want %+v", tc.data, got, tc.want)
		}
	}
}

func TestDecodeActionUnknown(t *testing.T) {
	for _, data := range []string{"", "delete", "mood:", "mood:furious", "mood_good", "del:", "del:abc", "del:0"} {
		if _, err := DecodeAction(data); !errors.Is(err, ErrUnknownAction) {
			t.Errorf("DecodeAction(%q): expected ErrUnknownAction, got %v", data, err)
		}
	}
}
