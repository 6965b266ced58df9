package sheet

import (
	"encoding/json"
	"fmt"

	"github.com/alee724/scheduler/internal/booking"
)

// Document is the persisted form of a Sheet.
type Document struct {
	Start    int              `json:"start"`
	End      int              `json:"end"`
	Interval int              `json:"interval"`
	Columns  []ColumnDocument `json:"columns"`
}

// ColumnDocument lists the bookings of one column. Only head slots are stored.
type ColumnDocument struct {
	Label string         `json:"label"`
	Items []ItemDocument `json:"items"`
}

// ItemDocument is one placed booking, encoded as [head, booking, span].
type ItemDocument struct {
	Head    int
	Booking *booking.Booking
	Span    int
}

// MarshalJSON encodes the item as a three-element array.
func (it ItemDocument) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{it.Head, it.Booking, it.Span})
}

// UnmarshalJSON decodes a [head, booking, span] array.
func (it *ItemDocument) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 3 {
		return fmt.Errorf("item must have 3 elements, got %d", len(raw))
	}

	var v ItemDocument
	if err := json.Unmarshal(raw[0], &v.Head); err != nil {
		return fmt.Errorf("item head: %w", err)
	}
	if err := json.Unmarshal(raw[1], &v.Booking); err != nil {
		return fmt.Errorf("item booking: %w", err)
	}
	if err := json.Unmarshal(raw[2], &v.Span); err != nil {
		return fmt.Errorf("item span: %w", err)
	}
	*it = v
	return nil
}

// Document returns the persisted form of the sheet.
func (s *Sheet) Document() Document {
	doc := Document{
		Start:    s.start.Hour(),
		End:      s.end.Hour(),
		Interval: s.interval,
		Columns:  make([]ColumnDocument, 0, s.grid.Len()),
	}
	for _, c := range s.grid.columns {
		cd := ColumnDocument{Label: c.Label(), Items: []ItemDocument{}}
		for _, p := range c.Placements() {
			cd.Items = append(cd.Items, ItemDocument{Head: p.Head, Booking: p.Booking, Span: p.Span})
		}
		doc.Columns = append(doc.Columns, cd)
	}
	return doc
}

// MarshalJSON encodes the sheet as its Document.
func (s *Sheet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Document())
}

// UnmarshalJSON replaces s with the sheet described by data.
func (s *Sheet) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*s = *decoded
	return nil
}

// Decode parses a sheet document and rebuilds the sheet from it.
func Decode(data []byte) (*Sheet, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	return FromDocument(doc)
}

// FromDocument rebuilds a sheet by replaying every item through AddItem in
// document order, so a document that breaks any slot rule is rejected.
func FromDocument(doc Document) (*Sheet, error) {
	s, err := New(doc.Start, doc.End, doc.Interval)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	for i, cd := range doc.Columns {
		if err := s.grid.AddColumn(cd.Label); err != nil {
			return nil, fmt.Errorf("%w: column %d: %w", ErrMalformedDocument, i, err)
		}
		c := s.grid.columns[i]
		for j, it := range cd.Items {
			if err := c.AddItem(it.Head, it.Booking, it.Span); err != nil {
				return nil, fmt.Errorf("%w: column %q item %d: %w", ErrMalformedDocument, c.Label(), j, err)
			}
		}
	}
	return s, nil
}
