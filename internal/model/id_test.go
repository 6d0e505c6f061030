package model

import (
	"encoding/json"
	"testing"
)

func TestIDUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want ID
	}{
		{`{"id": 42}`, "42"},
		{`{"id": "BK-7"}`, "BK-7"},
		{`{"id": null}`, ""},
	}
	for _, tt := range tests {
		var v struct {
			ID ID `json:"id"`
		}
		if err := json.Unmarshal([]byte(tt.in), &v); err != nil {
			t.Fatalf("Unmarshal(%s): %v", tt.in, err)
		}
		if v.ID != tt.want {
			t.Errorf("Unmarshal(%s) = %q, want %q", tt.in, v.ID, tt.want)
		}
	}

	var bad struct {
		ID ID `json:"id"`
	}
	if err := json.Unmarshal([]byte(`{"id": true}`), &bad); err == nil {
		t.Error("boolean id should fail")
	}
}

func TestIDMarshalsAsString(t *testing.T) {
	b, err := json.Marshal(Booking{ID: "9", ShowtimeID: "3"})
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	_ = json.Unmarshal(b, &raw)
	if raw["id"] != "9" {
		t.Errorf("id marshalled as %T %v", raw["id"], raw["id"])
	}
	if n, ok := ID("17").Uint(); !ok || n != 17 {
		t.Errorf("Uint() = %d,%v", n, ok)
	}
}
