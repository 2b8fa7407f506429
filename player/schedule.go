package player

import (
	"maps"
	"slices"

	"github.com/toid-audio/toid"
)

type (
	// ActiveNote is a scheduled note occurrence: the absolute sample where it
	// starts and where it nominally ends, counted from the start of the
	// session.
	ActiveNote[N any] struct {
		Start uint64
		End   uint64
		Note  N
	}

	entry[N any] struct {
		start uint64
		note  N
	}

	// activeNotes maps the absolute end sample of a note occurrence to all
	// occurrences ending there.
	activeNotes[N any] map[uint64][]entry[N]
)

func (a activeNotes[N]) add(start, end uint64, note N) {
	a[end] = append(a[end], entry[N]{start: start, note: note})
}

// retire drops every occurrence ending in [from, to), whether it was audible
// or not.
func (a activeNotes[N]) retire(from, to uint64) {
	for end := range a {
		if end >= from && end < to {
			delete(a, end)
		}
	}
}

// each calls fn for every occurrence, ordered by end sample and then by
// registration order.
func (a activeNotes[N]) each(fn func(start, end uint64, note N)) {
	for _, end := range slices.Sorted(maps.Keys(a)) {
		for _, e := range a[end] {
			fn(e.start, end, e.note)
		}
	}
}

func (a activeNotes[N]) list() []ActiveNote[N] {
	var ret []ActiveNote[N]
	a.each(func(start, end uint64, note N) {
		ret = append(ret, ActiveNote[N]{Start: start, End: end, Note: note})
	})
	return ret
}

// window reports the notes of phrase starting during the block that begins at
// cumBeats and spans toid.BlockLength samples at the given tempo. A note
// starting exactly at the beginning of the block is included, one starting
// exactly at its end is left for the next block. When the block crosses the
// loop point, the notes after the loop point are reported with start samples
// offset by one loop, and so on if the loop is shorter than a block. fn
// receives the absolute start sample of the notes.
func window[N toid.Note[N]](phrase toid.Phrase[N], cumSamples uint64, cumBeats toid.Beat, bpm float64, fn func(startSample uint64, notes []N)) {
	length := phrase.Length()
	if length <= 0 || !(bpm > 0) {
		return
	}
	end := cumBeats.Add(toid.BlockBeats(bpm))
	for loop := cumBeats.Sub(cumBeats.Mod(length)); loop < end; loop = loop.Add(length) {
		lo := max(cumBeats, loop).Sub(loop)
		hi := min(end, loop.Add(length)).Sub(loop)
		for start, notes := range phrase.Between(lo, hi) {
			offset := loop.Add(start).Sub(cumBeats)
			fn(cumSamples+uint64(max(offset.Samples(bpm), 0)), notes)
		}
	}
}

// span returns the part [startIdx, endIdx) of the current block during which
// a note occurrence sounds. The note is clipped to the block; endIdx <=
// startIdx means the note is silent in this block.
func span(start, end, cumSamples uint64) (startIdx, endIdx int) {
	next := cumSamples + toid.BlockLength
	if start > cumSamples {
		startIdx = int(min(start-cumSamples, toid.BlockLength))
	}
	switch {
	case end >= next:
		endIdx = toid.BlockLength
	case end > cumSamples:
		endIdx = int(end - cumSamples)
	}
	return startIdx, endIdx
}
