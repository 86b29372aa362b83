// Package reconcile decides which ratings move between the database and
// the file tags. It is pure: the engine inspects a matched pair and emits
// at most one mutation, never touching either store itself.
package reconcile

import (
	"github.com/llehouerou/rbsync/internal/match"
	"github.com/llehouerou/rbsync/internal/rating"
)

// Direction selects which store is the source of truth for a run.
type Direction int

const (
	// Import moves file tag ratings into the database.
	Import Direction = iota
	// Export moves database ratings out to the file tags.
	Export
)

func (d Direction) String() string {
	if d == Export {
		return "export"
	}
	return "import"
}

// Mutation is one rating change to apply to the destination store.
type Mutation struct {
	Location  string
	Direction Direction
	Old       rating.Rating // destination value before the change, zero if unrated
	New       rating.Rating
}

// ChangeSet is the ordered list of mutations one run decided on. It is
// complete before anything is committed, so it reads the same whether the
// run is dry or not.
type ChangeSet []Mutation

// Reconcile applies the conflict policy to one matched pair. The returned
// bool is false when nothing should change. An existing rating at the
// destination wins unless force is set; with force the source side always
// wins. Pairs missing either side never produce a mutation: ratings are
// not invented for unreadable files, and database entries are never created
// for files the library does not know.
func Reconcile(p match.Pair, dir Direction, force bool) (Mutation, bool) {
	if p.File == nil || p.Entry == nil {
		return Mutation{}, false
	}

	var src, dst rating.Rating
	if dir == Import {
		src, dst = p.File.Rating, p.Entry.Rating()
	} else {
		src, dst = p.Entry.Rating(), p.File.Rating
	}

	if !src.Rated() {
		return Mutation{}, false
	}
	if dst.Rated() && !force {
		return Mutation{}, false
	}
	if sameOnTarget(src, dst, dir) {
		return Mutation{}, false
	}

	return Mutation{Location: p.Location, Direction: dir, Old: dst, New: src}, true
}

// sameOnTarget compares source and destination at the destination store's
// granularity: a value that rounds to what is already stored is not a
// change worth writing.
func sameOnTarget(src, dst rating.Rating, dir Direction) bool {
	if dir == Import {
		return src.Stars() == dst.Stars()
	}
	return src.POPM() == dst.POPM()
}
