package reconcile

import (
	"sort"

	"github.com/geosect/geosect/pkg/borehole"
	"github.com/geosect/geosect/pkg/errors"
)

// Reconcile merges an ordered sequence of raw fragments into canonical
// borehole records, one per distinct borehole name, sorted by name with
// numeric-aware comparison.
//
// Fragments whose name trims to empty are silently dropped: they cannot be
// attributed to any physical borehole, and dropping them is policy, not a
// failure. Malformed field content never raises; missing numbers stay 0 and
// missing strings stay empty.
//
// An empty result is a hard failure: nothing downstream can proceed without
// at least one usable borehole, so Reconcile returns ErrCodeNoUsableData
// instead of an empty slice.
func Reconcile(frags []borehole.Fragment) ([]*borehole.Borehole, error) {
	byKey := make(map[string]*builder)

	for _, f := range frags {
		key := f.Key()
		if key == "" {
			continue
		}
		b := byKey[key]
		if b == nil {
			b = newBuilder(key)
			byKey[key] = b
		}
		b.add(f)
	}

	if len(byKey) == 0 {
		return nil, errors.New(errors.ErrCodeNoUsableData, "no usable borehole data")
	}

	out := make([]*borehole.Borehole, 0, len(byKey))
	for _, b := range byKey {
		sortBorehole(b.bh)
		out = append(out, b.bh)
	}

	sort.Slice(out, func(i, j int) bool {
		return NaturalCompare(out[i].Header.Name, out[j].Header.Name) < 0
	})
	return out, nil
}

// sortBorehole orders layers ascending by DepthFrom and SPT records ascending
// by depth. Stable sorts keep arrival order among equal keys, which preserves
// the first-wins semantics the dedup sets already enforced.
func sortBorehole(bh *borehole.Borehole) {
	sort.SliceStable(bh.Layers, func(i, j int) bool {
		return bh.Layers[i].DepthFrom < bh.Layers[j].DepthFrom
	})
	sort.SliceStable(bh.SPT, func(i, j int) bool {
		return bh.SPT[i].Depth < bh.SPT[j].Depth
	})
}

// ProjectField names a document-scoped header field that applies to every
// borehole of a run, not to one record.
type ProjectField int

const (
	// FieldProject is the project name shown on every log sheet.
	FieldProject ProjectField = iota
	// FieldClient is the commissioning client.
	FieldClient
)

// ApplyProjectField writes a document-scoped value across every canonical
// borehole. A document run is assumed to describe a single project, so these
// fields broadcast instead of merging per record. The cross-record effect is
// intentionally explicit at the call site rather than hidden inside the
// per-borehole merge. Empty values are ignored.
func ApplyProjectField(bhs []*borehole.Borehole, field ProjectField, value string) {
	if value == "" {
		return
	}
	for _, bh := range bhs {
		switch field {
		case FieldProject:
			bh.Header.Project = value
		case FieldClient:
			bh.Header.Client = value
		}
	}
}

// CollectProjectFields scans fragments in arrival order and returns the first
// non-empty project name and client it finds. Callers typically feed the
// results straight into ApplyProjectField.
func CollectProjectFields(frags []borehole.Fragment) (project, client string) {
	for _, f := range frags {
		if project == "" {
			project = f.Header.Project
		}
		if client == "" {
			client = f.Header.Client
		}
		if project != "" && client != "" {
			break
		}
	}
	return project, client
}
