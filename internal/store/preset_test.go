package store

import (
	"errors"
	"testing"
)

var green = Range{HMin: 50, HMax: 70, SMin: 100, SMax: 256, VMin: 100, VMax: 256}

func TestRange_Values(t *testing.T) {
	want := [6]int{50, 70, 100, 256, 100, 256}
	if got := green.Values(); got != want {
		t.Errorf("Values() = %v, want %v", got, want)
	}
	if got := RangeFromValues(want); got != green {
		t.Errorf("RangeFromValues() = %+v, want %+v", got, green)
	}
}

func TestPresetRepository_Create(t *testing.T) {
	s := newTestStore(t)
	repo := s.Presets()

	p := &Preset{ID: "preset-1", Name: "green ball", Range: green}
	if err := repo.Create(p); err != nil {
		t.Fatalf("failed to create preset: %v", err)
	}
	if p.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set after create")
	}

	got, err := repo.GetByID("preset-1")
	if err != nil {
		t.Fatalf("failed to get preset by ID: %v", err)
	}
	if got.Name != p.Name {
		t.Errorf("Name mismatch: got %q, want %q", got.Name, p.Name)
	}
	if got.Range != green {
		t.Errorf("Range mismatch: got %+v, want %+v", got.Range, green)
	}

	byName, err := repo.GetByName("green ball")
	if err != nil {
		t.Fatalf("failed to get preset by name: %v", err)
	}
	if byName.ID != "preset-1" {
		t.Errorf("GetByName() ID = %q", byName.ID)
	}
}

func TestPresetRepository_Create_Duplicate(t *testing.T) {
	s := newTestStore(t)
	repo := s.Presets()

	if err := repo.Create(&Preset{ID: "a", Name: "same", Range: green}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	tests := []struct {
		name   string
		preset *Preset
	}{
		{name: "duplicate name", preset: &Preset{ID: "b", Name: "same", Range: green}},
		{name: "duplicate id", preset: &Preset{ID: "a", Name: "other", Range: green}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(tt.preset)
			if !errors.Is(err, ErrDuplicate) {
				t.Errorf("Create() error = %v, want ErrDuplicate", err)
			}
		})
	}
}

func TestPresetRepository_Create_OutOfRange(t *testing.T) {
	s := newTestStore(t)

	bad := green
	bad.HMax = 300
	if err := s.Presets().Create(&Preset{ID: "x", Name: "bad", Range: bad}); err == nil {
		t.Error("Create() should reject out-of-range values")
	}
}

func TestPresetRepository_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Presets().GetByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
	if _, err := s.Presets().GetByName("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByName() error = %v, want ErrNotFound", err)
	}
}

func TestPresetRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Presets()

	presets, err := repo.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(presets) != 0 {
		t.Errorf("empty store listed %d presets", len(presets))
	}

	for _, name := range []string{"red", "green", "blue"} {
		if err := repo.Create(&Preset{ID: "id-" + name, Name: name, Range: green}); err != nil {
			t.Fatalf("Create(%s) error = %v", name, err)
		}
	}

	presets, err = repo.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(presets) != 3 {
		t.Errorf("List() returned %d presets, want 3", len(presets))
	}
}

func TestPresetRepository_Update(t *testing.T) {
	s := newTestStore(t)
	repo := s.Presets()

	p := &Preset{ID: "p", Name: "before", Range: green}
	if err := repo.Create(p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	p.Name = "after"
	p.Range.HMin = 40
	if err := repo.Update(p); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.GetByID("p")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "after" || got.Range.HMin != 40 {
		t.Errorf("after Update got %+v", got)
	}

	if err := repo.Update(&Preset{ID: "missing", Name: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() of missing preset error = %v, want ErrNotFound", err)
	}
}

func TestPresetRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Presets()

	if err := repo.Create(&Preset{ID: "p", Name: "gone", Range: green}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Delete("p"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID("p"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() after Delete error = %v, want ErrNotFound", err)
	}
	if err := repo.Delete("p"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}
