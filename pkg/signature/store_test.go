package signature

import "testing"

func TestStore_AddGetRemove(t *testing.T) {
	s := NewStore()

	s.Add("healthy", []float64{1, 2, 3}, map[string]any{"sweep_var": "tension"})
	if !s.Has("healthy") {
		t.Fatal("Expected healthy to be stored")
	}
	if s.Len() != 1 {
		t.Errorf("Expected 1 signature, got %d", s.Len())
	}

	vec, err := s.Get("healthy")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(vec) != 3 || vec[0] != 1 || vec[2] != 3 {
		t.Errorf("Unexpected vector: %v", vec)
	}

	s.Remove("healthy")
	if s.Has("healthy") {
		t.Error("Expected healthy to be removed")
	}
	if _, err := s.Get("healthy"); err == nil {
		t.Error("Expected error for removed signature")
	}

	// Removing again is a no-op.
	s.Remove("healthy")
}

func TestStore_GetMissing(t *testing.T) {
	s := NewStore()
	if _, err := s.Get("nope"); err == nil {
		t.Fatal("Expected error for missing signature")
	}
}

func TestStore_AddReplaces(t *testing.T) {
	s := NewStore()
	s.Add("sig", []float64{1, 2}, nil)
	s.Add("sig", []float64{9, 8, 7}, nil)

	vec, err := s.Get("sig")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(vec) != 3 || vec[0] != 9 {
		t.Errorf("Expected replacement vector, got %v", vec)
	}
	if s.Len() != 1 {
		t.Errorf("Expected replacement, not addition; got %d entries", s.Len())
	}
}

func TestStore_VectorsAreCopied(t *testing.T) {
	s := NewStore()
	src := []float64{1, 2, 3}
	s.Add("sig", src, nil)

	src[0] = 99
	vec, _ := s.Get("sig")
	if vec[0] != 1 {
		t.Error("Store aliased the caller's slice on Add")
	}

	vec[1] = 99
	again, _ := s.Get("sig")
	if again[1] != 2 {
		t.Error("Get returned an aliasing slice")
	}
}

func TestStore_List(t *testing.T) {
	s := NewStore()
	s.Add("a", []float64{3, -1, 7}, map[string]any{"output_var": "current"})
	s.Add("b", []float64{}, nil)

	summaries := s.List()
	if len(summaries) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(summaries))
	}

	byName := make(map[string]Summary, len(summaries))
	for _, sm := range summaries {
		byName[sm.Name] = sm
	}

	a := byName["a"]
	if a.Length != 3 || a.Min != -1 || a.Max != 7 {
		t.Errorf("Unexpected summary for a: %+v", a)
	}
	if a.Metadata["output_var"] != "current" {
		t.Errorf("Expected metadata to round-trip, got %v", a.Metadata)
	}
	if b := byName["b"]; b.Length != 0 || b.Min != 0 || b.Max != 0 {
		t.Errorf("Unexpected summary for empty vector: %+v", b)
	}
}

func TestStore_LibraryIsDeepCopy(t *testing.T) {
	s := NewStore()
	s.Add("sig", []float64{1, 2}, nil)

	lib := s.Library()
	lib["sig"][0] = 42
	lib["rogue"] = []float64{0}

	vec, _ := s.Get("sig")
	if vec[0] != 1 {
		t.Error("Library exposed the store's backing array")
	}
	if s.Has("rogue") {
		t.Error("Library map aliased the store's map")
	}
}
