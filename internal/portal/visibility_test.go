package portal_test

import (
	"testing"

	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/model"
	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/portal"
)

func TestVisibleOLevel(t *testing.T) {
	s2North := model.Placement{Level: model.LevelOLevel, Class: model.ClassS2, ClassStream: "North"}
	s2South := model.Placement{Level: model.LevelOLevel, Class: model.ClassS2, ClassStream: "South"}
	s2NoStream := model.Placement{Level: model.LevelOLevel, Class: model.ClassS2}
	s3North := model.Placement{Level: model.LevelOLevel, Class: model.ClassS3, ClassStream: "North"}

	wholeClass := model.Visibility{Level: model.LevelOLevel, Class: model.ClassS2}
	northOnly := model.Visibility{Level: model.LevelOLevel, Class: model.ClassS2, ClassStream: model.Only("North")}

	cases := []struct {
		name   string
		viewer model.Placement
		item   model.Visibility
		want   bool
	}{
		{"whole class reaches streamed student", s2North, wholeClass, true},
		{"whole class reaches unstreamed student", s2NoStream, wholeClass, true},
		{"stream item reaches matching stream", s2North, northOnly, true},
		{"stream item hidden from other stream", s2South, northOnly, false},
		{"stream item hidden from unstreamed student", s2NoStream, northOnly, false},
		{"other class never matches", s3North, wholeClass, false},
		{"missing viewer level fails closed", model.Placement{Class: model.ClassS2}, wholeClass, false},
		{"missing viewer class fails closed", model.Placement{Level: model.LevelOLevel}, wholeClass, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := portal.Visible(tc.viewer, tc.item); got != tc.want {
				t.Fatalf("Visible = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestVisibleALevel(t *testing.T) {
	sciPCM := model.Placement{Level: model.LevelALevel, Class: model.ClassS5, Stream: model.StreamScience, Combination: "PCM"}
	sciPCB := model.Placement{Level: model.LevelALevel, Class: model.ClassS5, Stream: model.StreamScience, Combination: "PCB"}
	artsHEG := model.Placement{Level: model.LevelALevel, Class: model.ClassS5, Stream: model.StreamArts, Combination: "HEG"}

	broadcast := model.Visibility{Level: model.LevelALevel, Class: model.ClassS5}
	scienceOnly := model.Visibility{Level: model.LevelALevel, Class: model.ClassS5, Stream: model.Only("science")}
	pcmOnly := model.Visibility{Level: model.LevelALevel, Class: model.ClassS5, Stream: model.Only("science"), Combination: model.Only("PCM")}

	cases := []struct {
		name   string
		viewer model.Placement
		item   model.Visibility
		want   bool
	}{
		{"broadcast reaches science", sciPCM, broadcast, true},
		{"broadcast reaches arts", artsHEG, broadcast, true},
		{"stream restriction includes matching stream", sciPCB, scienceOnly, true},
		{"stream restriction excludes arts", artsHEG, scienceOnly, false},
		{"combination restriction includes exact match", sciPCM, pcmOnly, true},
		{"combination restriction excludes other combination", sciPCB, pcmOnly, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := portal.Visible(tc.viewer, tc.item); got != tc.want {
				t.Fatalf("Visible = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestVisibleLevelsNeverCross(t *testing.T) {
	oLevel := model.Placement{Level: model.LevelOLevel, Class: model.ClassS4}
	aItem := model.Visibility{Level: model.LevelALevel, Class: model.ClassS5}
	if portal.Visible(oLevel, aItem) {
		t.Fatal("o-level viewer saw a-level item")
	}
}

func TestListVisibleSearchRunsAfterFilter(t *testing.T) {
	viewer := model.Placement{Level: model.LevelOLevel, Class: model.ClassS1, ClassStream: "East"}
	items := []model.ContentItem{
		{ID: "1", Title: "Algebra Basics", Visibility: model.Visibility{Level: model.LevelOLevel, Class: model.ClassS1}},
		{ID: "2", Title: "Algebra Advanced", Visibility: model.Visibility{Level: model.LevelOLevel, Class: model.ClassS1, ClassStream: model.Only("West")}},
		{ID: "3", Title: "Grammar Notes", Visibility: model.Visibility{Level: model.LevelOLevel, Class: model.ClassS1}},
	}

	got := portal.ListVisible(viewer, items, "algebra")
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("expected only item 1, got %+v", got)
	}

	// Empty search keeps every visible item.
	got = portal.ListVisible(viewer, items, "  ")
	if len(got) != 2 {
		t.Fatalf("expected 2 visible items, got %d", len(got))
	}
}

func TestMatchesSearchCaseInsensitive(t *testing.T) {
	item := model.ContentItem{Title: "Photosynthesis", Description: "Light reactions"}
	if !portal.MatchesSearch(item, "PHOTO") {
		t.Fatal("title match failed")
	}
	if !portal.MatchesSearch(item, "light") {
		t.Fatal("description match failed")
	}
	if portal.MatchesSearch(item, "osmosis") {
		t.Fatal("unexpected match")
	}
}
