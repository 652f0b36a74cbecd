package testutil

import "github.com/roach88/keynav/internal/key"

// SampleLeads returns a small insect key:
//
//	1 Wings present?
//	├── 2 Wings scaled
//	│   ├── 4 Vanessa cardui (record 11)
//	│   └── 5 Pieris rapae (record 12)
//	└── 3 Wings membranous
//	    ├── 6 Two wings
//	    │   ├── 8 Musca domestica (record 14)
//	    │   └── 9 Unknown fly (dead end)
//	    └── 7 Apis mellifera (record 13)
func SampleLeads() []key.Lead {
	return []key.Lead{
		{LeadID: 1, ParentID: key.NoParent, Text: "Wings present?"},
		{LeadID: 2, ParentID: 1, Text: "Wings scaled"},
		{LeadID: 3, ParentID: 1, Text: "Wings membranous"},
		speciesLead(4, 2, "Vanessa cardui", 11, "vc.jpg"),
		speciesLead(5, 2, "Pieris rapae", 12, ""),
		{LeadID: 6, ParentID: 3, Text: "Two wings"},
		speciesLead(7, 3, "Apis mellifera", 13, "am.jpg"),
		speciesLead(8, 6, "Musca domestica", 14, ""),
		{LeadID: 9, ParentID: 6, Text: "Unknown fly"},
	}
}

// Record filters matching SampleLeads.
var (
	ButterflyRecords = []int{11, 12}
	BeeRecords       = []int{13}
	FlyRecords       = []int{14}
)

func speciesLead(id, parent int, species string, record int, image string) key.Lead {
	l := key.Lead{LeadID: id, ParentID: parent, Text: species, Species: &species, RecordID: record}
	if image != "" {
		l.SpeciesImage = &image
	}
	return l
}
