package reconcile

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/geosect/geosect/pkg/borehole"
	"github.com/geosect/geosect/pkg/errors"
)

func frag(name string) borehole.Fragment {
	return borehole.Fragment{Header: borehole.HeaderFragment{Name: name}}
}

func fragWithLayer(name string, from, to float64, desc string) borehole.Fragment {
	f := frag(name)
	f.Layers = []borehole.LayerFragment{{DepthFrom: from, DepthTo: to, Description: desc}}
	return f
}

func TestReconcileSortsByNaturalName(t *testing.T) {
	bhs, err := Reconcile([]borehole.Fragment{frag("BH-2"), frag("BH-10"), frag("BH-1")})
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}

	want := []string{"BH-1", "BH-2", "BH-10"}
	if len(bhs) != len(want) {
		t.Fatalf("got %d boreholes, want %d", len(bhs), len(want))
	}
	for i, name := range want {
		if bhs[i].Header.Name != name {
			t.Errorf("bhs[%d].Name = %q, want %q", i, bhs[i].Header.Name, name)
		}
	}
}

func TestReconcileDropsUnnamedFragments(t *testing.T) {
	bhs, err := Reconcile([]borehole.Fragment{
		frag(""),
		frag("   "),
		frag("BH-1"),
	})
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	if len(bhs) != 1 || bhs[0].Header.Name != "BH-1" {
		t.Fatalf("got %d boreholes, want only BH-1", len(bhs))
	}
}

func TestReconcileTrimsNameKey(t *testing.T) {
	bhs, err := Reconcile([]borehole.Fragment{frag("  BH-1 "), frag("BH-1")})
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	if len(bhs) != 1 {
		t.Fatalf("whitespace-padded names should merge, got %d boreholes", len(bhs))
	}

	// Case differences stay distinct boreholes.
	bhs, err = Reconcile([]borehole.Fragment{frag("bh-1"), frag("BH-1")})
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	if len(bhs) != 2 {
		t.Fatalf("case-differing names should stay distinct, got %d boreholes", len(bhs))
	}
}

func TestReconcileEmptyResultIsHardFailure(t *testing.T) {
	_, err := Reconcile(nil)
	if !errors.Is(err, errors.ErrCodeNoUsableData) {
		t.Errorf("empty input: got %v, want NO_USABLE_DATA", err)
	}

	_, err = Reconcile([]borehole.Fragment{frag(""), frag("  ")})
	if !errors.Is(err, errors.ErrCodeNoUsableData) {
		t.Errorf("all-unnamed input: got %v, want NO_USABLE_DATA", err)
	}
}

func TestLayerDedupFirstWins(t *testing.T) {
	bhs, err := Reconcile([]borehole.Fragment{
		fragWithLayer("A", 0, 1, "first description"),
		fragWithLayer("A", 0, 1, "second description"),
	})
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}

	layers := bhs[0].Layers
	if len(layers) != 1 {
		t.Fatalf("got %d layers, want 1", len(layers))
	}
	// The later duplicate is discarded whole; no field-level merge happens.
	if layers[0].Description != "first description" {
		t.Errorf("Description = %q, want first fragment's value", layers[0].Description)
	}
}

func TestLayerMergeSortsByDepthFrom(t *testing.T) {
	f1 := frag("A")
	f1.Layers = []borehole.LayerFragment{
		{DepthFrom: 5, DepthTo: 8},
		{DepthFrom: 0, DepthTo: 2},
	}
	f2 := frag("A")
	f2.Layers = []borehole.LayerFragment{{DepthFrom: 2, DepthTo: 5}}

	bhs, err := Reconcile([]borehole.Fragment{f1, f2})
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}

	layers := bhs[0].Layers
	for i := 1; i < len(layers); i++ {
		if layers[i-1].DepthFrom > layers[i].DepthFrom {
			t.Fatalf("layers not sorted by DepthFrom: %v then %v", layers[i-1].DepthFrom, layers[i].DepthFrom)
		}
	}
}

func TestSPTDedupFirstWins(t *testing.T) {
	f1 := frag("A")
	f1.SPT = []borehole.SPTFragment{{Depth: 1.5, BlowCount: 12}}
	f2 := frag("A")
	f2.SPT = []borehole.SPTFragment{{Depth: 1.5, BlowCount: 30}, {Depth: 3.0, BlowCount: 18}}

	bhs, err := Reconcile([]borehole.Fragment{f1, f2})
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}

	spt := bhs[0].SPT
	if len(spt) != 2 {
		t.Fatalf("got %d SPT records, want 2", len(spt))
	}
	if spt[0].Depth != 1.5 || spt[0].BlowCount != 12 {
		t.Errorf("spt[0] = %+v, want first fragment's reading at 1.5", spt[0])
	}
	if spt[1].Depth != 3.0 {
		t.Errorf("spt[1].Depth = %v, want 3.0", spt[1].Depth)
	}
}

func TestHeaderBackfill(t *testing.T) {
	f1 := frag("BH-1")
	f1.Header.Elevation = borehole.ElevationUnknown // placeholder, eligible for replacement
	f2 := frag("BH-1")
	f2.Header.Elevation = "812.40"
	f2.Header.Date = "2019-04-02"
	f3 := frag("BH-1")
	f3.Header.Date = "1999-01-01" // first-seen date already set, must not overwrite

	bhs, err := Reconcile([]borehole.Fragment{f1, f2, f3})
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}

	h := bhs[0].Header
	if h.Elevation != "812.40" {
		t.Errorf("Elevation = %q, placeholder should be replaced", h.Elevation)
	}
	if h.Date != "2019-04-02" {
		t.Errorf("Date = %q, first non-empty value should stick", h.Date)
	}
}

func TestApplyProjectFieldBroadcasts(t *testing.T) {
	bhs, err := Reconcile([]borehole.Fragment{frag("BH-1"), frag("BH-2")})
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}

	ApplyProjectField(bhs, FieldProject, "Ridge Crossing Phase II")
	ApplyProjectField(bhs, FieldClient, "")

	for _, bh := range bhs {
		if bh.Header.Project != "Ridge Crossing Phase II" {
			t.Errorf("%s: Project = %q, want broadcast value", bh.Header.Name, bh.Header.Project)
		}
		if bh.Header.Client != "" {
			t.Errorf("%s: empty broadcast must not write", bh.Header.Name)
		}
	}
}

func TestCollectProjectFields(t *testing.T) {
	f1 := frag("BH-1")
	f2 := frag("BH-2")
	f2.Header.Project = "Harbor Quay"
	f3 := frag("BH-3")
	f3.Header.Project = "Other"
	f3.Header.Client = "Port Authority"

	project, client := CollectProjectFields([]borehole.Fragment{f1, f2, f3})
	if project != "Harbor Quay" {
		t.Errorf("project = %q, want first non-empty", project)
	}
	if client != "Port Authority" {
		t.Errorf("client = %q", client)
	}
}

// TestReconcileOrderIndependence checks that permutations of a fragment set
// without exact-duplicate depth intervals reconcile identically.
func TestReconcileOrderIndependence(t *testing.T) {
	frags := []borehole.Fragment{
		fragWithLayer("BH-1", 0, 2, "silty sand"),
		fragWithLayer("BH-1", 2, 6, "lean clay"),
		fragWithLayer("BH-2", 0, 4, "gravel"),
		fragWithLayer("BH-3", 0, 1, "topsoil"),
	}

	base, err := Reconcile(frags)
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}

	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		shuffled := make([]borehole.Fragment, len(frags))
		copy(shuffled, frags)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got, err := Reconcile(shuffled)
		if err != nil {
			t.Fatalf("trial %d: Reconcile error: %v", trial, err)
		}
		assertSameBoreholes(t, base, got)
	}
}

// TestReconcileIdempotent checks that a clean one-fragment-per-borehole input
// round-trips unchanged.
func TestReconcileIdempotent(t *testing.T) {
	f := frag("BH-7")
	f.Header.Elevation = "101.25"
	f.Layers = []borehole.LayerFragment{
		{DepthFrom: 0, DepthTo: 3, Description: "fill", USCS: "SM"},
		{DepthFrom: 3, DepthTo: 9, Description: "fat clay", USCS: "CH"},
	}
	f.SPT = []borehole.SPTFragment{{Depth: 1.5, BlowCount: 9}, {Depth: 4.5, BlowCount: 22}}

	bhs, err := Reconcile([]borehole.Fragment{f})
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}

	bh := bhs[0]
	if len(bh.Layers) != 2 || len(bh.SPT) != 2 {
		t.Fatalf("layers/spt = %d/%d, want 2/2", len(bh.Layers), len(bh.SPT))
	}
	if bh.Layers[0].Description != "fill" || bh.Layers[1].USCS != "CH" {
		t.Error("layer content should survive reconciliation unchanged")
	}
	if bh.Header.Elevation != "101.25" {
		t.Errorf("Elevation = %q", bh.Header.Elevation)
	}
	if bh.Layers[0].ID == "" || bh.Layers[0].ID == bh.Layers[1].ID {
		t.Error("layers should get distinct synthetic IDs")
	}
}

// TestReconcileDeterministicIDs checks that reconciling identical input twice
// yields byte-identical records, IDs included. Downstream cache keys hash the
// serialized borehole set, so any run-to-run ID churn would make the layout
// and artifact caches permanently cold.
func TestReconcileDeterministicIDs(t *testing.T) {
	input := func() []borehole.Fragment {
		f := frag("BH-1")
		f.Layers = []borehole.LayerFragment{{DepthFrom: 0, DepthTo: 4, USCS: "CL"}}
		f.SPT = []borehole.SPTFragment{{Depth: 1.5, BlowCount: 12}}
		return []borehole.Fragment{f}
	}

	first, err := Reconcile(input())
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}
	second, err := Reconcile(input())
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}

	a, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("identical input produced different records:\n%s\n%s", a, b)
	}

	bh := first[0]
	if bh.ID != borehole.RecordID("BH-1") {
		t.Errorf("borehole ID = %q, want %q", bh.ID, borehole.RecordID("BH-1"))
	}
	if bh.Layers[0].ID != borehole.LayerID("BH-1", 0, 4) {
		t.Errorf("layer ID = %q, want %q", bh.Layers[0].ID, borehole.LayerID("BH-1", 0, 4))
	}
	if bh.SPT[0].ID != borehole.SPTID("BH-1", 1.5) {
		t.Errorf("spt ID = %q, want %q", bh.SPT[0].ID, borehole.SPTID("BH-1", 1.5))
	}
}

func assertSameBoreholes(t *testing.T, want, got []*borehole.Borehole) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("got %d boreholes, want %d", len(got), len(want))
	}
	for i := range want {
		w, g := want[i], got[i]
		if w.Header.Name != g.Header.Name {
			t.Fatalf("bhs[%d].Name = %q, want %q", i, g.Header.Name, w.Header.Name)
		}
		if len(w.Layers) != len(g.Layers) {
			t.Fatalf("%s: got %d layers, want %d", w.Header.Name, len(g.Layers), len(w.Layers))
		}
		for j := range w.Layers {
			wl, gl := w.Layers[j], g.Layers[j]
			if wl.DepthFrom != gl.DepthFrom || wl.DepthTo != gl.DepthTo || wl.Description != gl.Description {
				t.Errorf("%s: layer %d differs: %+v vs %+v", w.Header.Name, j, wl, gl)
			}
		}
	}
}
