package fetch

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func writeArchive(t *testing.T, path string, entries map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range entries {
		entry, err := w.Create(name)
		if err != nil {
			t.Fatalf("create entry %s: %v", name, err)
		}
		if _, err := entry.Write([]byte(content)); err != nil {
			t.Fatalf("write entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
}

func TestExtract(t *testing.T) {
	t.Run("unpacks nested entries", func(t *testing.T) {
		dir := t.TempDir()
		archive := filepath.Join(dir, "FoodData.zip")
		writeArchive(t, archive, map[string]string{
			"FoodData/food.csv":          "fdc_id,description\n",
			"FoodData/food_nutrient.csv": "id,fdc_id\n",
		})

		dest, err := Extract(archive)
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if dest != filepath.Join(dir, "FoodData") {
			t.Errorf("Extract() dest = %q", dest)
		}
		content, err := os.ReadFile(filepath.Join(dest, "FoodData", "food.csv"))
		if err != nil {
			t.Fatalf("read extracted file: %v", err)
		}
		if string(content) != "fdc_id,description\n" {
			t.Errorf("extracted content = %q", content)
		}
	})

	t.Run("reuses existing extraction", func(t *testing.T) {
		dir := t.TempDir()
		archive := filepath.Join(dir, "data.zip")
		writeArchive(t, archive, map[string]string{"a.csv": "x\n"})

		first, err := Extract(archive)
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		marker := filepath.Join(first, "marker")
		if err := os.WriteFile(marker, []byte("kept"), 0o644); err != nil {
			t.Fatalf("write marker: %v", err)
		}

		second, err := Extract(archive)
		if err != nil {
			t.Fatalf("Extract() second error = %v", err)
		}
		if second != first {
			t.Errorf("Extract() second dest = %q, want %q", second, first)
		}
		if _, err := os.Stat(marker); err != nil {
			t.Errorf("marker removed, extraction was not reused: %v", err)
		}
	})

	t.Run("rejects entries escaping the destination", func(t *testing.T) {
		dir := t.TempDir()
		archive := filepath.Join(dir, "evil.zip")
		writeArchive(t, archive, map[string]string{"../escape.txt": "nope"})

		if _, err := Extract(archive); err == nil {
			t.Fatal("Extract() expected error for escaping entry")
		}
	})
}

func TestFindFile(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "FoodData", "csv")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	target := filepath.Join(nested, "food.csv")
	if err := os.WriteFile(target, []byte("fdc_id\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	t.Run("finds nested file", func(t *testing.T) {
		path, err := FindFile(dir, "food.csv")
		if err != nil {
			t.Fatalf("FindFile() error = %v", err)
		}
		if path != target {
			t.Errorf("FindFile() = %q, want %q", path, target)
		}
	})

	t.Run("errors when absent", func(t *testing.T) {
		if _, err := FindFile(dir, "missing.csv"); err == nil {
			t.Fatal("FindFile() expected error for missing file")
		}
	})
}
