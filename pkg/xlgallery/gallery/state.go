// Package gallery holds the view state of the record gallery and renders it.
//
// Every change goes through a named transition (ApplyFilter, ClearFilter,
// OpenDetail, Navigate, CloseDetail); the page is a pure function of the
// resulting State.
package gallery

import (
	"net/url"
	"slices"
	"strconv"

	"github.com/ukaji3/xlgallery-go/pkg/xlgallery/models"
)

// Texts shown in place of missing values.
const (
	PlaceholderText = "No img"
	UntitledText    = "Untitled"
	UnknownType     = "Unknown"
	NoDescription   = "No description available."
	NoDataText      = "No data loaded. Check your XLSX file."
	LoadErrorText   = "Could not load data.json"
	AllLabel        = "All"
)

// Query parameters carrying the view state between requests.
const (
	ParamType = "type"
	ParamItem = "item"
)

// State is the view state of one gallery page.
type State struct {
	// All is the full record list, in file order.
	All []models.Record
	// Types lists the distinct non-empty types in first-seen order.
	Types []string
	// Filter is the selected type; meaningful only when Filtered is set.
	Filter   string
	Filtered bool
	// Current is All narrowed by the filter.
	Current []models.Record
	// Index is the position in Current of the open detail view, -1 when closed.
	Index int
}

// NewState returns an unfiltered state with the detail view closed.
func NewState(records []models.Record) *State {
	return &State{
		All:     records,
		Types:   DistinctTypes(records),
		Current: records,
		Index:   -1,
	}
}

// FromQuery replays the transitions encoded in q onto a fresh state. A type
// that no record carries leaves the state unfiltered.
func FromQuery(records []models.Record, q url.Values) *State {
	s := NewState(records)
	if t := q.Get(ParamType); t != "" && slices.Contains(s.Types, t) {
		s.ApplyFilter(t)
	}
	if item := q.Get(ParamItem); item != "" {
		if i, err := strconv.Atoi(item); err == nil {
			s.OpenDetail(i)
		}
	}
	return s
}

// DistinctTypes returns the non-empty types of records in first-seen order.
func DistinctTypes(records []models.Record) []string {
	seen := make(map[string]bool)
	var types []string
	for _, r := range records {
		if r.Type == "" || seen[r.Type] {
			continue
		}
		seen[r.Type] = true
		types = append(types, r.Type)
	}
	return types
}

// ApplyFilter narrows Current to records of type t and closes the detail view.
func (s *State) ApplyFilter(t string) {
	s.Filter = t
	s.Filtered = true
	s.Current = make([]models.Record, 0, len(s.All))
	for _, r := range s.All {
		if r.Type == t {
			s.Current = append(s.Current, r)
		}
	}
	s.Index = -1
}

// ClearFilter shows every record again ("All").
func (s *State) ClearFilter() {
	s.Filter = ""
	s.Filtered = false
	s.Current = s.All
	s.Index = -1
}

// OpenDetail opens the detail view at position i of Current. Out of range
// positions are ignored.
func (s *State) OpenDetail(i int) bool {
	if i < 0 || i >= len(s.Current) {
		return false
	}
	s.Index = i
	return true
}

// Navigate moves the open detail view by delta, clamping at both ends.
func (s *State) Navigate(delta int) {
	if s.Index < 0 {
		return
	}
	target := s.Index + delta
	if target < 0 {
		target = 0
	}
	if target > len(s.Current)-1 {
		target = len(s.Current) - 1
	}
	s.OpenDetail(target)
}

// Prev steps the detail view backward.
func (s *State) Prev() { s.Navigate(-1) }

// Next steps the detail view forward.
func (s *State) Next() { s.Navigate(1) }

// CloseDetail closes the detail view.
func (s *State) CloseDetail() {
	s.Index = -1
}

// IsOpen reports whether the detail view is open.
func (s *State) IsOpen() bool {
	return s.Index >= 0 && s.Index < len(s.Current)
}

// Control is one filter button.
type Control struct {
	Label  string
	Href   string
	Active bool
}

// Controls returns the "All" control followed by one control per type. It is
// empty when no record has a type.
func (s *State) Controls() []Control {
	if len(s.Types) == 0 {
		return nil
	}
	controls := make([]Control, 0, len(s.Types)+1)
	controls = append(controls, Control{Label: AllLabel, Href: "?", Active: !s.Filtered})
	for _, t := range s.Types {
		controls = append(controls, Control{
			Label:  t,
			Href:   "?" + url.Values{ParamType: {t}}.Encode(),
			Active: s.Filtered && s.Filter == t,
		})
	}
	return controls
}

// Card is one grid entry.
type Card struct {
	Index    int
	Name     string
	Type     string
	Image    string
	HasImage bool
	Href     string
}

// Cards returns one card per record of Current.
func (s *State) Cards() []Card {
	cards := make([]Card, len(s.Current))
	for i, r := range s.Current {
		cards[i] = Card{
			Index:    i,
			Name:     orDefault(r.Name, UntitledText),
			Type:     orDefault(r.Type, UnknownType),
			Image:    r.Image,
			HasImage: r.HasImage(),
			Href:     s.href(i),
		}
	}
	return cards
}

// DetailView is the content of the open detail view.
type DetailView struct {
	Name        string
	TypeLine    string
	Description string
	Image       string
	ShowImage   bool
	Website     string
	CanVisit    bool
	Position    int
	Total       int
	PrevHref    string
	NextHref    string
	CloseHref   string
}

// Detail returns the open detail view, or false when it is closed.
func (s *State) Detail() (DetailView, bool) {
	if !s.IsOpen() {
		return DetailView{}, false
	}
	r := s.Current[s.Index]

	prev, next := s.Index-1, s.Index+1
	if prev < 0 {
		prev = 0
	}
	if next > len(s.Current)-1 {
		next = len(s.Current) - 1
	}

	return DetailView{
		Name:        orDefault(r.Name, UntitledText),
		TypeLine:    "Type: " + orDefault(r.Type, UnknownType),
		Description: orDefault(r.Description, NoDescription),
		Image:       r.Image,
		ShowImage:   r.HasImage(),
		Website:     r.Website,
		CanVisit:    r.Website != "",
		Position:    s.Index + 1,
		Total:       len(s.Current),
		PrevHref:    s.href(prev),
		NextHref:    s.href(next),
		CloseHref:   s.href(-1),
	}, true
}

// href encodes the current filter and the given detail position (-1: none).
func (s *State) href(item int) string {
	v := url.Values{}
	if s.Filtered {
		v.Set(ParamType, s.Filter)
	}
	if item >= 0 {
		v.Set(ParamItem, strconv.Itoa(item))
	}
	return "?" + v.Encode()
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
