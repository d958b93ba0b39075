package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestampJSON(t *testing.T) {
	testCases := []struct {
		input    string
		expected time.Time
	}{
		{`"2024-01-10"`, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
		{`"2024-01-10T08:30:00Z"`, time.Date(2024, 1, 10, 8, 30, 0, 0, time.UTC)},
		{`"2024-01-10T08:30:00.123Z"`, time.Date(2024, 1, 10, 8, 30, 0, 123000000, time.UTC)},
		{`"2024-01-10 08:30:00"`, time.Date(2024, 1, 10, 8, 30, 0, 0, time.UTC)},
	}
	for _, tc := range testCases {
		var ts Timestamp
		if err := json.Unmarshal([]byte(tc.input), &ts); err != nil {
			t.Fatalf("Unmarshal(%s): %v", tc.input, err)
		}
		if !ts.Equal(tc.expected) {
			t.Errorf("Unmarshal(%s): expected %v, got %v", tc.input, tc.expected, ts.Time)
		}
	}

	var empty Timestamp
	if err := json.Unmarshal([]byte(`null`), &empty); err != nil || !empty.IsZero() {
		t.Errorf("Expected zero timestamp for null, got %v (%v)", empty, err)
	}

	var bad Timestamp
	if err := json.Unmarshal([]byte(`"10/01/2024"`), &bad); err == nil {
		t.Error("Expected error for unsupported layout")
	}

	out, err := json.Marshal(MustDate("2024-01-10"))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `"2024-01-10T00:00:00Z"` {
		t.Errorf("Unexpected marshal output %s", out)
	}
}
