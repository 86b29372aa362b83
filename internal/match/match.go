// Package match pairs decoded file ratings with database entries by
// location.
package match

import (
	"net/url"
	"path/filepath"
	"sort"

	"github.com/llehouerou/rbsync/internal/popm"
	"github.com/llehouerou/rbsync/internal/rhythmdb"
)

// Pair joins the two sides of one track. At least one side is always set:
// entry-only pairs are tracks whose file was missing or unreadable,
// file-only pairs are files the database does not know about.
type Pair struct {
	Location string // normalized absolute path
	File     *popm.FileRating
	Entry    *rhythmdb.Entry
}

// NormalizeLocation maps a database location URI or a plain file path onto
// the canonical form used for matching: a cleaned, percent-decoded absolute
// path.
func NormalizeLocation(loc string) string {
	if u, err := url.Parse(loc); err == nil && u.Scheme == "file" {
		return filepath.Clean(u.Path)
	}
	return filepath.Clean(loc)
}

// Match pairs ratings with entries. Entries keep their database order so
// downstream change sets are reproducible run to run; ratings without a
// matching entry follow, sorted by location.
func Match(ratings []popm.FileRating, entries []*rhythmdb.Entry) []Pair {
	byLocation := make(map[string]*popm.FileRating, len(ratings))
	for i := range ratings {
		byLocation[NormalizeLocation(ratings[i].Path)] = &ratings[i]
	}

	matched := make(map[string]bool, len(ratings))
	pairs := make([]Pair, 0, len(entries))
	for _, e := range entries {
		loc := e.Location()
		if loc == "" {
			continue
		}
		p := Pair{Location: NormalizeLocation(loc), Entry: e}
		if fr, ok := byLocation[p.Location]; ok {
			p.File = fr
			matched[p.Location] = true
		}
		pairs = append(pairs, p)
	}

	var orphans []Pair
	for loc, fr := range byLocation {
		if !matched[loc] {
			orphans = append(orphans, Pair{Location: loc, File: fr})
		}
	}
	sort.Slice(orphans, func(i, j int) bool { return orphans[i].Location < orphans[j].Location })

	return append(pairs, orphans...)
}
