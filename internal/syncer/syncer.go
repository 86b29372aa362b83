// Package syncer runs one full import or export pass: load the database,
// decode the files, reconcile every matched pair, then commit the change
// set — or only report it under dry run.
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/llehouerou/rbsync/internal/match"
	"github.com/llehouerou/rbsync/internal/popm"
	"github.com/llehouerou/rbsync/internal/reconcile"
	"github.com/llehouerou/rbsync/internal/rhythmdb"
)

// Options configures one run. InputPath is required. OutputPath defaults
// to InputPath and only matters for import. Files optionally restricts the
// run to an explicit list of audio files instead of every location the
// database references.
type Options struct {
	InputPath  string
	OutputPath string
	Direction  reconcile.Direction
	Force      bool
	DryRun     bool
	Files      []string
}

// Report summarizes a run. Changes is complete even under dry run.
type Report struct {
	Changes  reconcile.ChangeSet
	Examined int // files decoded successfully
	Skipped  int // files missing, unreadable, or unwritable
	Dry      bool
}

// Syncer wires the rating codec and the library store together.
type Syncer struct {
	codec *popm.Codec
	log   *slog.Logger
}

// New returns a syncer using the given codec. A nil logger discards logs.
func New(codec *popm.Codec, log *slog.Logger) *Syncer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Syncer{codec: codec, log: log}
}

// pending couples a decided mutation with the pair it applies to, so the
// commit phase does not have to look anything up again.
type pending struct {
	mut  reconcile.Mutation
	pair match.Pair
}

// Run executes one pass. A database parse or save failure aborts the run;
// per-file tag failures are logged, counted, and skipped. Interruption via
// ctx aborts between files and never leaves a half-written database behind.
func (s *Syncer) Run(ctx context.Context, opts Options) (*Report, error) {
	doc, err := rhythmdb.Load(opts.InputPath)
	if err != nil {
		return nil, err
	}
	s.log.Debug("database loaded", "path", opts.InputPath, "entries", len(doc.Entries))

	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = opts.InputPath
	}

	songs := doc.Songs()
	candidates := opts.Files
	if len(candidates) == 0 {
		candidates = locations(songs, opts.Direction)
	}

	report := &Report{Dry: opts.DryRun}
	ratings, err := s.decodeAll(ctx, candidates, report)
	if err != nil {
		return nil, err
	}

	var queue []pending
	for _, pair := range match.Match(ratings, songs) {
		mut, ok := reconcile.Reconcile(pair, opts.Direction, opts.Force)
		if !ok {
			continue
		}
		report.Changes = append(report.Changes, mut)
		queue = append(queue, pending{mut: mut, pair: pair})
	}

	if err := s.commit(ctx, doc, outputPath, queue, opts.DryRun, report); err != nil {
		return report, err
	}

	s.log.Info("run complete",
		"direction", opts.Direction.String(),
		"dry", opts.DryRun,
		"changed", len(report.Changes),
		"examined", report.Examined,
		"skipped", report.Skipped)
	return report, nil
}

// decodeAll reads the rating state of every candidate file. Failures are
// non-fatal: the file is skipped, logged, and counted.
func (s *Syncer) decodeAll(ctx context.Context, paths []string, report *Report) ([]popm.FileRating, error) {
	ratings := make([]popm.FileRating, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !popm.IsSupported(path) {
			s.log.Debug("unsupported file type, skipping", "path", path)
			report.Skipped++
			continue
		}
		if _, err := os.Stat(path); err != nil {
			s.log.Warn("file not found, skipping", "path", path)
			report.Skipped++
			continue
		}
		fr, err := s.codec.Decode(path)
		if err != nil {
			s.log.Warn("unreadable file, skipping", "path", path, "err", err)
			report.Skipped++
			continue
		}
		report.Examined++
		ratings = append(ratings, fr)
	}
	return ratings, nil
}

// commit materializes the change set. Import folds every mutation into the
// document and saves it once; export writes each file tag individually,
// skipping files that refuse the write. Dry run only logs.
func (s *Syncer) commit(ctx context.Context, doc *rhythmdb.Document, outputPath string, queue []pending, dry bool, report *Report) error {
	if dry {
		for _, p := range queue {
			s.log.Info("dry run, would update",
				"direction", p.mut.Direction.String(),
				"location", p.mut.Location,
				"old", float64(p.mut.Old),
				"new", float64(p.mut.New))
		}
		return nil
	}

	importing := false
	for _, p := range queue {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch p.mut.Direction {
		case reconcile.Import:
			p.pair.Entry.SetRating(p.mut.New)
			importing = true
		case reconcile.Export:
			if err := s.codec.Encode(p.mut.Location, p.mut.New); err != nil {
				s.log.Warn("unwritable file, skipping", "path", p.mut.Location, "err", err)
				report.Skipped++
				continue
			}
			s.log.Info("file updated", "path", p.mut.Location, "rating", float64(p.mut.New))
		}
	}

	if importing {
		if err := doc.Save(outputPath); err != nil {
			return fmt.Errorf("save database: %w", err)
		}
		s.log.Info("database updated", "path", outputPath, "changed", len(queue))
	}
	return nil
}

// locations lists the on-disk paths the database references, in document
// order without duplicates. Export only needs files whose entry actually
// carries a rating.
func locations(songs []*rhythmdb.Entry, dir reconcile.Direction) []string {
	var paths []string
	seen := make(map[string]bool, len(songs))
	for _, e := range songs {
		if dir == reconcile.Export && !e.Rating().Rated() {
			continue
		}
		loc := e.Location()
		if loc == "" {
			continue
		}
		path := match.NormalizeLocation(loc)
		if seen[path] {
			continue
		}
		seen[path] = true
		paths = append(paths, path)
	}
	return paths
}
