package wrangler

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestManifest_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestFilename)

	manifest := NewManifest()
	manifest.SetBomState("org.scijava:pom-scijava:30.0.0", BomState{
		Coordinate:  "org.scijava:pom-scijava:30.0.0",
		CompletedAt: nowUTC(),
		Components:  12,
		Unpacked:    10,
		Skipped:     2,
	})
	if err := manifest.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if loaded.Version != ManifestVersion {
		t.Errorf("Version = %d, want %d", loaded.Version, ManifestVersion)
	}
	state := loaded.Boms["org.scijava:pom-scijava:30.0.0"]
	if state.Components != 12 || state.Unpacked != 10 || state.Skipped != 2 {
		t.Errorf("loaded state = %+v", state)
	}
	if !loaded.IsComplete("org.scijava:pom-scijava:30.0.0") {
		t.Error("IsComplete = false after a clean pass")
	}
}

func TestLoadManifest_Missing(t *testing.T) {
	manifest, err := LoadManifest(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if len(manifest.Boms) != 0 {
		t.Errorf("fresh manifest has %d entries", len(manifest.Boms))
	}
}

func TestLoadManifest_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestFilename)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadManifest(path); err == nil {
		t.Error("expected error for corrupt manifest")
	}
}

func TestBomState_Complete(t *testing.T) {
	if (BomState{}).Complete() {
		t.Error("zero state reported complete")
	}
	if (BomState{CompletedAt: nowUTC(), Error: "boom"}).Complete() {
		t.Error("failed state reported complete")
	}
	if !(BomState{CompletedAt: nowUTC()}).Complete() {
		t.Error("finished state reported incomplete")
	}
}

func TestManifest_BomsWithErrors(t *testing.T) {
	manifest := NewManifest()
	manifest.SetBomState("a:b:1.0.0", BomState{CompletedAt: nowUTC()})
	manifest.SetBomState("a:b:2.0.0", BomState{Error: "artifact fetch failed"})

	failed := manifest.BomsWithErrors()
	if len(failed) != 1 || failed["a:b:2.0.0"] != "artifact fetch failed" {
		t.Errorf("BomsWithErrors = %v", failed)
	}
	if manifest.IsComplete("a:b:2.0.0") {
		t.Error("failed BOM reported complete")
	}
}

func TestManifest_ConcurrentSave(t *testing.T) {
	// Save mutates LastRun, so it must hold the write lock against
	// concurrent state updates. Run under the race detector.
	dir := t.TempDir()
	manifest := NewManifest()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		coordinate := fmt.Sprintf("a:b:%d.0.0", i)
		savePath := filepath.Join(dir, fmt.Sprintf("manifest-%d.json", i))
		go func() {
			defer wg.Done()
			manifest.SetBomState(coordinate, BomState{CompletedAt: nowUTC()})
		}()
		go func() {
			defer wg.Done()
			if err := manifest.Save(savePath); err != nil {
				t.Errorf("Save failed: %v", err)
			}
		}()
	}
	wg.Wait()

	path := filepath.Join(dir, ManifestFilename)
	if err := manifest.Save(path); err != nil {
		t.Fatalf("final Save failed: %v", err)
	}
	loaded, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if len(loaded.Boms) != 4 {
		t.Errorf("loaded %d entries, want 4", len(loaded.Boms))
	}
	if loaded.LastRun.IsZero() {
		t.Error("LastRun not stamped by Save")
	}
}

func TestManifest_BomCoordinatesSorted(t *testing.T) {
	manifest := NewManifest()
	manifest.SetBomState("a:b:2.0.0", BomState{})
	manifest.SetBomState("a:b:1.0.0", BomState{})
	manifest.SetBomState("a:a:1.0.0", BomState{})

	coords := manifest.BomCoordinates()
	want := []string{"a:a:1.0.0", "a:b:1.0.0", "a:b:2.0.0"}
	if len(coords) != len(want) {
		t.Fatalf("coords = %v", coords)
	}
	for i := range want {
		if coords[i] != want[i] {
			t.Errorf("coords[%d] = %q, want %q", i, coords[i], want[i])
		}
	}
}
