package item

import (
	"encoding/json"
	"testing"
	"time"
)

func TestUnmarshalDateAlias(t *testing.T) {
	var it Item
	raw := `{"id":3,"title":"Omoda E5 in Noble trim - pictures","description":"Pictures","image":"https://example.com/e5.jpg","date":"2024-10-15T10:30:56Z","category":"Automobile"}`
	if err := json.Unmarshal([]byte(raw), &it); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := time.Date(2024, 10, 15, 10, 30, 56, 0, time.UTC)
	if !it.Timestamp.Equal(want) {
		t.Fatalf("expected %v, got %v", want, it.Timestamp)
	}
	if it.Category != "Automobile" {
		t.Fatalf("unexpected category %q", it.Category)
	}
}

func TestUnmarshalMillis(t *testing.T) {
	var it Item
	if err := json.Unmarshal([]byte(`{"id":1,"title":"x","timestamp":1729160267000}`), &it); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if it.Timestamp.Millis() != 1729160267000 {
		t.Fatalf("unexpected millis %d", it.Timestamp.Millis())
	}

	if err := json.Unmarshal([]byte(`{"id":1,"title":"x","timestamp":"1729160267000"}`), &it); err != nil {
		t.Fatalf("unmarshal quoted millis: %v", err)
	}
	if it.Timestamp.Millis() != 1729160267000 {
		t.Fatalf("unexpected millis %d", it.Timestamp.Millis())
	}
}

func TestUnmarshalShortDescriptionAndMarkup(t *testing.T) {
	var it Item
	raw := `{"id":7,"title":"Game","short_description":"<b>Fast</b> &amp; loud","tags":["mmo","pvp"]}`
	if err := json.Unmarshal([]byte(raw), &it); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if it.Description != "<b>Fast</b> &amp; loud" {
		t.Fatalf("expected verbatim description, got %q", it.Description)
	}
	if got := it.Normalize().Description; got != "Fast & loud" {
		t.Fatalf("expected sanitized description, got %q", got)
	}
	if !it.HasTag("PVP") {
		t.Fatalf("expected tag match ignoring case")
	}
}

func TestNormalizeLeavesOriginal(t *testing.T) {
	in := Item{ID: 1, Description: "use <br> for breaks", Image: " https://example.com/a.jpg ", Tags: []string{"x"}}
	out := in.Normalize()
	if in.Description != "use <br> for breaks" || in.Image != " https://example.com/a.jpg " {
		t.Fatalf("normalize changed its receiver: %+v", in)
	}
	if out.Description != "use  for breaks" || out.Image != "https://example.com/a.jpg" {
		t.Fatalf("unexpected normalized item: %+v", out)
	}
	out.Tags[0] = "y"
	if in.Tags[0] != "x" {
		t.Fatalf("normalize shares tags with its receiver")
	}
}

func TestUnmarshalMissingID(t *testing.T) {
	var it Item
	if err := json.Unmarshal([]byte(`{"title":"no id"}`), &it); err == nil {
		t.Fatalf("expected error for missing id")
	}
}

func TestRoundTripKeepsInstant(t *testing.T) {
	in := Item{ID: 9, Title: "t", Timestamp: At(time.Date(2023, 10, 17, 11, 0, 16, 500, time.UTC))}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out Item
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !out.Timestamp.Equal(in.Timestamp.Time) {
		t.Fatalf("expected %v, got %v", in.Timestamp, out.Timestamp)
	}
}

func TestCloneDetachesTags(t *testing.T) {
	in := Item{ID: 1, Tags: []string{"a"}}
	cp := in.Clone()
	cp.Tags[0] = "b"
	if in.Tags[0] != "a" {
		t.Fatalf("clone shares tag storage")
	}
}
