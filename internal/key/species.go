package key

import (
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// UniqueSpeciesWithImages lists each species named in steps once, sorted by
// name. Names are NFC-normalized before comparison so composed and decomposed
// spellings merge. When a name repeats with different images, the image seen
// last in step order wins.
func UniqueSpeciesWithImages(steps []Lead) []SpeciesEntry {
	byName := make(map[string]*string)
	for _, s := range steps {
		if s.Species == nil {
			continue
		}
		byName[speciesKey(*s.Species)] = s.SpeciesImage
	}

	out := make([]SpeciesEntry, 0, len(byName))
	for name, image := range byName {
		out = append(out, SpeciesEntry{Name: name, Image: image})
	}
	slices.SortFunc(out, func(a, b SpeciesEntry) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// UniqueSpeciesWithRecords groups the RecordID of every species step under
// its species name. Records keep first-seen order inside each group; the
// groups are sorted by name.
func UniqueSpeciesWithRecords(steps []Lead) []SpeciesWithRecords {
	byName := make(map[string][]int)
	for _, s := range steps {
		if s.Species == nil {
			continue
		}
		name := speciesKey(*s.Species)
		byName[name] = append(byName[name], s.RecordID)
	}

	out := make([]SpeciesWithRecords, 0, len(byName))
	for name, records := range byName {
		out = append(out, SpeciesWithRecords{Name: name, Records: records})
	}
	slices.SortFunc(out, func(a, b SpeciesWithRecords) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

func speciesKey(name string) string {
	return norm.NFC.String(name)
}
