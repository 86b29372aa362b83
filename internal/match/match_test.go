package match

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/llehouerou/rbsync/internal/popm"
	"github.com/llehouerou/rbsync/internal/rhythmdb"
)

func entriesFromLocations(t *testing.T, locations ...string) []*rhythmdb.Entry {
	t.Helper()

	var sb strings.Builder
	sb.WriteString(`<rhythmdb version="2.0">`)
	for _, loc := range locations {
		fmt.Fprintf(&sb, `<entry type="song"><location>%s</location></entry>`, loc)
	}
	sb.WriteString(`</rhythmdb>`)

	path := filepath.Join(t.TempDir(), "rhythmdb.xml")
	if err := os.WriteFile(path, []byte(sb.String()), 0o600); err != nil {
		t.Fatalf("write database: %v", err)
	}
	doc, err := rhythmdb.Load(path)
	if err != nil {
		t.Fatalf("load database: %v", err)
	}
	return doc.Songs()
}

func TestNormalizeLocation(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"file:///music/track.mp3", "/music/track.mp3"},
		{"file:///music/first%20track.mp3", "/music/first track.mp3"},
		{"file:///music/a%26b.mp3", "/music/a&b.mp3"},
		{"/music/track.mp3", "/music/track.mp3"},
		{"/music//double/../track.mp3", "/music/track.mp3"},
	}

	for _, tt := range tests {
		if got := NormalizeLocation(tt.in); got != tt.want {
			t.Errorf("NormalizeLocation(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMatch_PairsByLocation(t *testing.T) {
	entries := entriesFromLocations(t,
		"file:///music/one.mp3",
		"file:///music/two%20b.mp3",
		"file:///music/three.mp3",
	)
	ratings := []popm.FileRating{
		{Path: "/music/two b.mp3"},
		{Path: "/music/one.mp3"},
	}

	pairs := Match(ratings, entries)
	if len(pairs) != 3 {
		t.Fatalf("got %d pairs, want 3", len(pairs))
	}

	// Database order is preserved.
	wantLocations := []string{"/music/one.mp3", "/music/two b.mp3", "/music/three.mp3"}
	for i, want := range wantLocations {
		if pairs[i].Location != want {
			t.Errorf("pairs[%d].Location = %q, want %q", i, pairs[i].Location, want)
		}
	}

	if pairs[0].File == nil || pairs[1].File == nil {
		t.Error("matched pairs missing file side")
	}
	if pairs[2].File != nil {
		t.Error("unmatched entry unexpectedly has a file side")
	}
	for i, p := range pairs {
		if p.Entry == nil {
			t.Errorf("pairs[%d].Entry = nil", i)
		}
	}
}

func TestMatch_OrphanFilesSortedLast(t *testing.T) {
	entries := entriesFromLocations(t, "file:///music/known.mp3")
	ratings := []popm.FileRating{
		{Path: "/music/zz.mp3"},
		{Path: "/music/known.mp3"},
		{Path: "/music/aa.mp3"},
	}

	pairs := Match(ratings, entries)
	if len(pairs) != 3 {
		t.Fatalf("got %d pairs, want 3", len(pairs))
	}

	if pairs[0].Location != "/music/known.mp3" || pairs[0].Entry == nil {
		t.Errorf("pairs[0] = %+v, want matched entry pair", pairs[0])
	}

	// File-only pairs come last, sorted by location, with no entry side.
	if pairs[1].Location != "/music/aa.mp3" || pairs[2].Location != "/music/zz.mp3" {
		t.Errorf("orphan order = %q, %q", pairs[1].Location, pairs[2].Location)
	}
	for _, p := range pairs[1:] {
		if p.Entry != nil {
			t.Errorf("orphan pair %q has an entry side", p.Location)
		}
		if p.File == nil {
			t.Errorf("orphan pair %q missing file side", p.Location)
		}
	}
}

func TestMatch_EmptyInputs(t *testing.T) {
	if pairs := Match(nil, nil); len(pairs) != 0 {
		t.Errorf("Match(nil, nil) = %d pairs, want 0", len(pairs))
	}
}
