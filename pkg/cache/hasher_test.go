package cache

import (
	"path"
	"strings"
	"testing"
)

func TestContentHash(t *testing.T) {
	t.Run("same bytes produce same hash", func(t *testing.T) {
		a := ContentHash([]byte("workbook"))
		b := ContentHash([]byte("workbook"))
		if a != b {
			t.Errorf("same content should produce same hash: %v != %v", a, b)
		}
		if len(a) != 64 {
			t.Errorf("expected 64 hex chars, got %d", len(a))
		}
	})

	t.Run("different bytes produce different hashes", func(t *testing.T) {
		if ContentHash([]byte("a")) == ContentHash([]byte("b")) {
			t.Error("different content should produce different hashes")
		}
	})

	t.Run("empty content", func(t *testing.T) {
		if ContentHash(nil) != ContentHash([]byte{}) {
			t.Error("nil and empty slice should hash the same")
		}
	})
}

func TestShortHash(t *testing.T) {
	data := []byte("workbook")
	short := ShortHash(data)

	if len(short) != 16 {
		t.Errorf("expected 16 chars, got %d", len(short))
	}
	if !strings.HasPrefix(ContentHash(data), short) {
		t.Errorf("short hash %s should prefix full hash", short)
	}
}

func TestBuildSheetKey(t *testing.T) {
	tests := []struct {
		name  string
		sheet string
		skip  int
		want  string
	}{
		{"named sheet", "Sheet 18", 0, "sheet:abc:Sheet 18:0"},
		{"skip rows", "Sheet 4", 1, "sheet:abc:Sheet 4:1"},
		{"first sheet", "", 0, "sheet:abc:#first:0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildSheetKey("abc", tt.sheet, tt.skip)
			if got != tt.want {
				t.Errorf("BuildSheetKey() = %v, want %v", got, tt.want)
			}

			matched, err := path.Match(SheetPattern, got)
			if err != nil || !matched {
				t.Errorf("key %s should match %s", got, SheetPattern)
			}
		})
	}
}
