package rhythmdb

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/llehouerou/rbsync/internal/rating"
)

// Property names owned by the rating logic. Everything else is opaque
// payload carried through load and save untouched.
const (
	propLocation = "location"
	propRating   = "rating"
	propLastSeen = "last-seen"
	propTitle    = "title"
)

// Entry is one track record. Its properties keep their document order;
// SetRating is the only way the rating logic mutates an entry.
type Entry struct {
	attrs []xml.Attr
	props []property
	dirty bool
}

type property struct {
	name  xml.Name
	attrs []xml.Attr
	value string
}

func parseEntry(dec *xml.Decoder, start xml.StartElement) (*Entry, error) {
	e := &Entry{attrs: start.Copy().Attr}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			p, err := parseProperty(dec, t)
			if err != nil {
				return nil, err
			}
			e.props = append(e.props, p)
		case xml.EndElement:
			return e, nil
		}
	}
}

func parseProperty(dec *xml.Decoder, start xml.StartElement) (property, error) {
	p := property{name: start.Name, attrs: start.Copy().Attr}
	var value strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return p, err
		}
		switch t := tok.(type) {
		case xml.CharData:
			value.Write(t)
		case xml.StartElement:
			return p, fmt.Errorf("unexpected nested element <%s> in <%s>", t.Name.Local, start.Name.Local)
		case xml.EndElement:
			p.value = value.String()
			return p, nil
		}
	}
}

func (e *Entry) encode(enc *xml.Encoder) error {
	start := xml.StartElement{Name: xml.Name{Local: "entry"}, Attr: e.attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, p := range e.props {
		if err := enc.EncodeToken(xml.StartElement{Name: p.name, Attr: p.attrs}); err != nil {
			return err
		}
		if p.value != "" {
			if err := enc.EncodeToken(xml.CharData(p.value)); err != nil {
				return err
			}
		}
		if err := enc.EncodeToken(xml.EndElement{Name: p.name}); err != nil {
			return err
		}
	}
	return enc.EncodeToken(xml.EndElement{Name: start.Name})
}

// Type returns the entry's type attribute ("song", "ignore", "iradio", ...).
func (e *Entry) Type() string {
	for _, a := range e.attrs {
		if a.Name.Local == "type" {
			return a.Value
		}
	}
	return ""
}

// IsSong reports whether the entry describes a local track.
func (e *Entry) IsSong() bool {
	return e.Type() == "song"
}

// Location returns the entry's location URI as stored in the database.
func (e *Entry) Location() string {
	v, _ := e.get(propLocation)
	return v
}

// Title returns the track title, for log messages.
func (e *Entry) Title() string {
	v, _ := e.get(propTitle)
	return v
}

// Rating returns the stored rating on the normalized scale, or zero when
// the entry is unrated or the stored value is malformed.
func (e *Entry) Rating() rating.Rating {
	v, ok := e.get(propRating)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return 0
	}
	return rating.FromStars(n)
}

// SetRating updates the rating property and marks the entry dirty. Ratings
// that round to zero stars remove the property: Rhythmbox never stores a
// zero rating. Returns false when the stored value would not change.
func (e *Entry) SetRating(r rating.Rating) bool {
	stars := r.Stars()
	i := e.index(propRating)

	if stars == 0 {
		if i < 0 {
			return false
		}
		e.props = append(e.props[:i], e.props[i+1:]...)
		e.dirty = true
		return true
	}

	value := strconv.Itoa(stars)
	if i >= 0 {
		if e.props[i].value == value {
			return false
		}
		e.props[i].value = value
		e.dirty = true
		return true
	}

	// Rhythmbox keeps the rating right after last-seen; match that so a
	// rewritten database diffs cleanly against one Rhythmbox wrote itself.
	p := property{name: xml.Name{Local: propRating}, value: value}
	if j := e.index(propLastSeen); j >= 0 {
		e.props = append(e.props[:j+1], append([]property{p}, e.props[j+1:]...)...)
	} else {
		e.props = append(e.props, p)
	}
	e.dirty = true
	return true
}

// Dirty reports whether the entry was mutated since load.
func (e *Entry) Dirty() bool {
	return e.dirty
}

func (e *Entry) get(name string) (string, bool) {
	if i := e.index(name); i >= 0 {
		return e.props[i].value, true
	}
	return "", false
}

func (e *Entry) index(name string) int {
	for i, p := range e.props {
		if p.name.Local == name {
			return i
		}
	}
	return -1
}
