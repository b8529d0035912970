package settings

import (
	"path/filepath"
	"testing"
)

func TestStoreLoadEmpty(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "settings.json"))

	cfg, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != nil {
		t.Fatalf("expected nil record from empty store, got %+v", cfg)
	}
}

func TestStoreSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	s := NewStore(path)

	home := Coordinate{Lat: 51.5, Lon: -0.12}
	dh := Clock{Hour: 8, Minute: 0}
	cfg := &CommuteSettings{
		HomeCoord:   &home,
		HomeAddress: home.String(),
		DepartHome:  &dh,
		Notify:      Target{Channel: "telegram", ChatID: "42"},
	}
	if err := s.Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// A fresh store over the same path sees the committed record.
	got, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil {
		t.Fatal("expected a record")
	}
	if got.HomeCoord == nil || got.HomeCoord.Lat != 51.5 {
		t.Errorf("home coord not restored: %+v", got.HomeCoord)
	}
	if got.DepartHome == nil || got.DepartHome.String() != "08:00" {
		t.Errorf("departure time not restored: %v", got.DepartHome)
	}
	if got.DepartWork != nil {
		t.Errorf("absent field materialized: %v", got.DepartWork)
	}
	if got.Notify.ChatID != "42" {
		t.Errorf("notify target not restored: %+v", got.Notify)
	}
}

func TestStoreOverwrite(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "settings.json"))

	dh := Clock{Hour: 8}
	if err := s.Save(&CommuteSettings{DepartHome: &dh}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	dh2 := Clock{Hour: 9, Minute: 15}
	if err := s.Save(&CommuteSettings{DepartHome: &dh2}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.DepartHome.String() != "09:15" {
		t.Errorf("expected overwrite to win, got %s", got.DepartHome)
	}
}
