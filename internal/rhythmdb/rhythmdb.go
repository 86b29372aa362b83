// Package rhythmdb reads and writes the Rhythmbox XML track database.
//
// The database is a flat list of <entry> elements under a <rhythmdb> root,
// each entry a list of simple text properties. The parser keeps every
// property it does not understand, in document order, so a load/save cycle
// with no mutations preserves the database apart from whitespace
// normalization. Saving goes through a temporary file and a rename, so a
// failed save never damages the existing database.
package rhythmdb

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const header = "<?xml version=\"1.0\" standalone=\"yes\"?>\n"

// Document is an in-memory Rhythmbox database.
type Document struct {
	root    xml.StartElement
	Entries []*Entry
}

// Load parses the database at path fully into memory.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer f.Close()

	doc, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse database %s: %w", path, err)
	}
	return doc, nil
}

func parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	doc := &Document{}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if doc.root.Name.Local == "" {
			if start.Name.Local != "rhythmdb" {
				return nil, fmt.Errorf("unexpected root element <%s>", start.Name.Local)
			}
			doc.root = start.Copy()
			continue
		}
		if start.Name.Local != "entry" {
			return nil, fmt.Errorf("unexpected element <%s>", start.Name.Local)
		}
		entry, err := parseEntry(dec, start)
		if err != nil {
			return nil, err
		}
		doc.Entries = append(doc.Entries, entry)
	}

	if doc.root.Name.Local == "" {
		return nil, fmt.Errorf("missing <rhythmdb> root element")
	}
	return doc, nil
}

// Songs returns the entries of type "song", in document order.
func (d *Document) Songs() []*Entry {
	songs := make([]*Entry, 0, len(d.Entries))
	for _, e := range d.Entries {
		if e.IsSong() {
			songs = append(songs, e)
		}
	}
	return songs
}

// Save serializes the document to path. The document is written to a
// temporary file in the same directory first and renamed into place, so the
// previous file survives any mid-write failure.
func (d *Document) Save(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".rhythmdb-*.xml")
	if err != nil {
		return fmt.Errorf("create temporary database: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := d.write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write database: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write database: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace database: %w", err)
	}
	return nil
}

func (d *Document) write(w io.Writer) error {
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	if err := enc.EncodeToken(d.root); err != nil {
		return err
	}
	for _, e := range d.Entries {
		if err := e.encode(enc); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(xml.EndElement{Name: d.root.Name}); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}

	_, err := io.WriteString(w, "\n")
	return err
}
