package extraction

import (
	"testing"
)

func TestDecodePayload(t *testing.T) {
	raw := `{
		"fragments": [
			{
				"header": {"name": "BH-1", "elevation": "812.40"},
				"layers": [
					{"depth_from": 0, "depth_to": 2.5, "description": "Lean clay", "uscs": "CL"}
				],
				"spt": [
					{"depth": 1.5, "blow_count": 12}
				]
			}
		]
	}`

	frags, err := decodePayload(raw, 3)
	if err != nil {
		t.Fatalf("decodePayload: %v", err)
	}
	if len(frags) != 1 {
		t.Fatalf("got %d fragments, want 1", len(frags))
	}
	f := frags[0]
	if f.Page != 3 {
		t.Errorf("Page = %d, want 3", f.Page)
	}
	if f.Header.Name != "BH-1" {
		t.Errorf("Name = %q", f.Header.Name)
	}
	if len(f.Layers) != 1 || f.Layers[0].USCS != "CL" {
		t.Errorf("layers = %+v", f.Layers)
	}
	if len(f.SPT) != 1 || f.SPT[0].BlowCount != 12 {
		t.Errorf("spt = %+v", f.SPT)
	}
}

func TestDecodePayloadEmptyPage(t *testing.T) {
	frags, err := decodePayload(`{"fragments": []}`, 1)
	if err != nil {
		t.Fatalf("decodePayload: %v", err)
	}
	if len(frags) != 0 {
		t.Errorf("got %d fragments, want 0", len(frags))
	}
}

func TestDecodePayloadStripsMarkdownFence(t *testing.T) {
	raw := "```json\n{\"fragments\": [{\"header\": {\"name\": \"BH-2\"}}]}\n```"
	frags, err := decodePayload(raw, 1)
	if err != nil {
		t.Fatalf("decodePayload: %v", err)
	}
	if len(frags) != 1 || frags[0].Header.Name != "BH-2" {
		t.Errorf("fragments = %+v", frags)
	}
}

func TestDecodePayloadRejectsBadJSON(t *testing.T) {
	if _, err := decodePayload(`not json at all`, 1); err == nil {
		t.Error("malformed JSON should fail")
	}
}

func TestDecodePayloadRejectsSchemaViolations(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"missing fragments key", `{"boreholes": []}`},
		{"layer missing depths", `{"fragments": [{"header": {"name": "BH-1"}, "layers": [{"description": "clay"}]}]}`},
		{"negative depth", `{"fragments": [{"header": {"name": "BH-1"}, "layers": [{"depth_from": -1, "depth_to": 2}]}]}`},
		{"fractional blow count", `{"fragments": [{"header": {"name": "BH-1"}, "spt": [{"depth": 1, "blow_count": 7.5}]}]}`},
		{"fines over 100", `{"fragments": [{"header": {"name": "BH-1"}, "layers": [{"depth_from": 0, "depth_to": 1, "fines_percent": 150}]}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := decodePayload(tc.raw, 1); err == nil {
				t.Error("payload should fail validation")
			}
		})
	}
}
