package toid

import (
	"encoding/json"
	"fmt"
	"iter"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"
)

type (
	// Phrase is an immutable, time ordered collection of notes that loops with
	// period Length. Notes starting at the same time form a deduplicated set
	// ordered by Note.Compare. AddNote and SetLength return new phrases and
	// never modify the receiver; unchanged note groups are shared between the
	// old and the new phrase. A zero Phrase is empty and has length 0, which
	// disables looping: no notes are ever scheduled from it.
	Phrase[N Note[N]] struct {
		groups []noteGroup[N] // sorted by start, no empty groups
		length Beat
	}

	noteGroup[N any] struct {
		start Beat
		notes []N // sorted, deduplicated; never modified after creation
	}

	phraseFile[N any] struct {
		Length Beat `yaml:"length" json:"length"`
		Notes  []N  `yaml:"notes,flow" json:"notes"`
	}
)

func NewPhrase[N Note[N]]() Phrase[N] {
	return Phrase[N]{}
}

// AddNote returns a new phrase with note added. Adding a note equal to one
// already in the phrase returns an equal phrase.
func (p Phrase[N]) AddNote(note N) Phrase[N] {
	start := note.StartBeat()
	i, found := p.search(start)
	if !found {
		groups := make([]noteGroup[N], 0, len(p.groups)+1)
		groups = append(groups, p.groups[:i]...)
		groups = append(groups, noteGroup[N]{start: start, notes: []N{note}})
		groups = append(groups, p.groups[i:]...)
		return Phrase[N]{groups: groups, length: p.length}
	}
	old := p.groups[i].notes
	j, exists := slices.BinarySearchFunc(old, note, func(a, b N) int { return a.Compare(b) })
	if exists && old[j] == note {
		return p
	}
	notes := make([]N, 0, len(old)+1)
	notes = append(notes, old[:j]...)
	notes = append(notes, note)
	notes = append(notes, old[j:]...)
	groups := slices.Clone(p.groups)
	groups[i] = noteGroup[N]{start: start, notes: notes}
	return Phrase[N]{groups: groups, length: p.length}
}

// SetLength returns a new phrase with the loop length set.
func (p Phrase[N]) SetLength(length Beat) Phrase[N] {
	return Phrase[N]{groups: p.groups, length: length}
}

func (p Phrase[N]) Length() Beat { return p.length }

// Len returns the number of notes in the phrase.
func (p Phrase[N]) Len() int {
	ret := 0
	for _, g := range p.groups {
		ret += len(g.notes)
	}
	return ret
}

// NoteVec returns a fresh slice of all notes, ordered by start time and then
// by Note.Compare.
func (p Phrase[N]) NoteVec() []N {
	ret := make([]N, 0, p.Len())
	for n := range p.All() {
		ret = append(ret, n)
	}
	return ret
}

// All iterates the notes in the same order as NoteVec.
func (p Phrase[N]) All() iter.Seq[N] {
	return func(yield func(N) bool) {
		for _, g := range p.groups {
			for _, n := range g.notes {
				if !yield(n) {
					return
				}
			}
		}
	}
}

// Between iterates, in order, the start times in [lo, hi) together with the
// notes starting at them. The yielded slices are shared with the phrase and
// must not be modified.
func (p Phrase[N]) Between(lo, hi Beat) iter.Seq2[Beat, []N] {
	return func(yield func(Beat, []N) bool) {
		i, _ := p.search(lo)
		for ; i < len(p.groups) && p.groups[i].start < hi; i++ {
			if !yield(p.groups[i].start, p.groups[i].notes) {
				return
			}
		}
	}
}

// Equal reports whether both phrases have the same length and exactly the same
// notes.
func (p Phrase[N]) Equal(o Phrase[N]) bool {
	if p.length != o.length || len(p.groups) != len(o.groups) {
		return false
	}
	for i, g := range p.groups {
		if g.start != o.groups[i].start || !slices.Equal(g.notes, o.groups[i].notes) {
			return false
		}
	}
	return true
}

func (p Phrase[N]) search(start Beat) (int, bool) {
	i := sort.Search(len(p.groups), func(i int) bool { return p.groups[i].start >= start })
	return i, i < len(p.groups) && p.groups[i].start == start
}

func (p Phrase[N]) file() phraseFile[N] {
	return phraseFile[N]{Length: p.length, Notes: p.NoteVec()}
}

func phraseFromFile[N Note[N]](f phraseFile[N]) Phrase[N] {
	ret := NewPhrase[N]().SetLength(f.Length)
	for _, n := range f.Notes {
		ret = ret.AddNote(n)
	}
	return ret
}

func (p Phrase[N]) MarshalYAML() (interface{}, error) {
	return p.file(), nil
}

func (p *Phrase[N]) UnmarshalYAML(value *yaml.Node) error {
	var f phraseFile[N]
	if err := value.Decode(&f); err != nil {
		return fmt.Errorf("phrase: %w", err)
	}
	*p = phraseFromFile(f)
	return nil
}

func (p Phrase[N]) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.file())
}

func (p *Phrase[N]) UnmarshalJSON(data []byte) error {
	var f phraseFile[N]
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("phrase: %w", err)
	}
	*p = phraseFromFile(f)
	return nil
}
