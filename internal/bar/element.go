package bar

import (
	"fmt"
	"strings"
)

// Kind is one of the fixed element kinds a bar can show.
type Kind int

const (
	KindTags Kind = iota
	KindTitle
	KindLayout
	KindStatus
)

var kindCodes = map[rune]Kind{
	't': KindTags,
	'n': KindTitle,
	'l': KindLayout,
	's': KindStatus,
}

func (k Kind) String() string {
	switch k {
	case KindTags:
		return "tags"
	case KindTitle:
		return "title"
	case KindLayout:
		return "layout"
	case KindStatus:
		return "status"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Segment is one styled run of bar text.
type Segment struct {
	Text     string
	Selected bool
	// Occupied marks tags that hold clients.
	Occupied bool
}

// Element renders one part of the bar from the bar state.
type Element interface {
	Kind() Kind
	Segments(st *State) []Segment
}

// ParseElements resolves an element order string such as "tnls", one
// character per element: t tags, n title, l layout, s status.
func ParseElements(order string) ([]Element, error) {
	if strings.TrimSpace(order) == "" {
		order = DefaultOrder
	}
	var out []Element
	for _, r := range order {
		k, ok := kindCodes[r]
		if !ok {
			return nil, fmt.Errorf("unknown bar element %q in %q", r, order)
		}
		out = append(out, newElement(k))
	}
	return out, nil
}

// DefaultOrder shows tags, layout, title and status.
const DefaultOrder = "tlns"

func newElement(k Kind) Element {
	switch k {
	case KindTags:
		return tagsElement{}
	case KindTitle:
		return titleElement{}
	case KindLayout:
		return layoutElement{}
	default:
		return statusElement{}
	}
}

type tagsElement struct{}

func (tagsElement) Kind() Kind { return KindTags }

func (tagsElement) Segments(st *State) []Segment {
	out := make([]Segment, 0, len(st.Tags))
	for _, t := range st.Tags {
		out = append(out, Segment{
			Text:     " " + t.Name + " ",
			Selected: t.ID == st.Selected,
			Occupied: t.Clients > 0,
		})
	}
	return out
}

type titleElement struct{}

func (titleElement) Kind() Kind { return KindTitle }

func (titleElement) Segments(st *State) []Segment {
	if st.Title == "" {
		return nil
	}
	return []Segment{{Text: " " + st.Title + " "}}
}

type layoutElement struct{}

func (layoutElement) Kind() Kind { return KindLayout }

func (layoutElement) Segments(st *State) []Segment {
	if st.Layout == "" {
		return nil
	}
	return []Segment{{Text: " [" + st.Layout + "] "}}
}

type statusElement struct{}

func (statusElement) Kind() Kind { return KindStatus }

func (statusElement) Segments(st *State) []Segment {
	if st.Status == "" {
		return nil
	}
	return []Segment{{Text: " " + st.Status + " "}}
}
