package telegram

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCallbackRoundTrip(t *testing.T) {
	id := uuid.MustParse("1b4e28ba-2fa1-11d2-883f-0016d3cca427")

	tests := []struct {
		name   string
		data   string
		action string
	}{
		{"review", buildReviewCallback(id), actionReview},
		{"reschedule", buildRescheduleCallback(id), actionReschedule},
		{"schedule", buildScheduleCallback(id), actionSchedule},
		{"complete", buildCompleteCallback(id, true), actionComplete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.data) > 64 {
				t.Fatalf("callback %q exceeds 64 bytes", tt.data)
			}
			cd := decodeCallback(tt.data)
			if cd.Action != tt.action {
				t.Fatalf("action = %q, want %q", cd.Action, tt.action)
			}
			got, err := cd.subTopicID()
			if err != nil || got != id {
				t.Fatalf("subTopicID = %v, %v", got, err)
			}
		})
	}
}

func TestToggleCallback(t *testing.T) {
	id := uuid.New()
	data := buildToggleCallback(id, 3, true)
	if len(data) > 64 {
		t.Fatalf("callback %q exceeds 64 bytes", data)
	}

	gotID, number, done, err := decodeCallback(data).toggle()
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if gotID != id || number != 3 || !done {
		t.Fatalf("toggle = %v %d %v", gotID, number, done)
	}

	_, _, done, err = decodeCallback(buildToggleCallback(id, 1, false)).toggle()
	if err != nil || done {
		t.Fatalf("unmark toggle = %v, %v", done, err)
	}

	bad := []string{
		"tg",
		"tg:" + id.String(),
		"tg:" + id.String() + ":x:1",
		"tg:" + id.String() + ":0:1",
		"tg:" + id.String() + ":2:yes",
		"tg:not-a-uuid:2:1",
	}
	for _, data := range bad {
		if _, _, _, err := decodeCallback(data).toggle(); err == nil {
			t.Fatalf("toggle(%q) accepted malformed data", data)
		}
	}
}

func TestCalendarCallback(t *testing.T) {
	year, month, err := decodeCallback(buildCalendarCallback(2024, time.February)).month()
	if err != nil || year != 2024 || month != time.February {
		t.Fatalf("month = %d %v %v", year, month, err)
	}

	for _, data := range []string{"cal", "cal:2024", "cal:2024:13", "cal:x:1"} {
		if _, _, err := decodeCallback(data).month(); err == nil {
			t.Fatalf("month(%q) accepted malformed data", data)
		}
	}
}

func TestDecodeCallbackWithoutParams(t *testing.T) {
	cd := decodeCallback(buildTodayCallback())
	if cd.Action != actionToday || len(cd.Params) != 0 {
		t.Fatalf("decode = %+v", cd)
	}
	if _, err := cd.subTopicID(); err == nil {
		t.Fatalf("subTopicID accepted missing id")
	}
}

func TestCompleteCallback(t *testing.T) {
	id := uuid.New()

	gotID, completed, err := decodeCallback(buildCompleteCallback(id, false)).complete()
	if err != nil || gotID != id || completed {
		t.Fatalf("complete = %v %v %v", gotID, completed, err)
	}

	if _, _, err := decodeCallback("cm:" + id.String()).complete(); err == nil {
		t.Fatalf("complete accepted missing state")
	}
}
