package key

import "testing"

func strPtr(s string) *string { return &s }

func question(id, parent int, text string) Lead {
	return Lead{LeadID: id, ParentID: parent, Text: text}
}

func terminal(id, parent int, species string, record int, image string) Lead {
	l := Lead{LeadID: id, ParentID: parent, Text: species, Species: strPtr(species), RecordID: record}
	if image != "" {
		l.SpeciesImage = strPtr(image)
	}
	return l
}

// sampleLeads is a small insect key:
//
//	1 Wings present?
//	├── 2 Wings scaled
//	│   ├── 4 Vanessa cardui (11)
//	│   ├── 5 Pieris rapae (12)
//	│   └── 10 Vanessa cardui (15)
//	└── 3 Wings membranous
//	    ├── 6 Two wings
//	    │   ├── 8 Musca domestica (14)
//	    │   └── 9 Unknown fly (dead end)
//	    └── 7 Apis mellifera (13)
func sampleLeads() []Lead {
	return []Lead{
		question(1, NoParent, "Wings present?"),
		question(2, 1, "Wings scaled"),
		question(3, 1, "Wings membranous"),
		terminal(4, 2, "Vanessa cardui", 11, "vc.jpg"),
		terminal(5, 2, "Pieris rapae", 12, ""),
		question(6, 3, "Two wings"),
		terminal(7, 3, "Apis mellifera", 13, "am.jpg"),
		terminal(8, 6, "Musca domestica", 14, ""),
		question(9, 6, "Unknown fly"),
		terminal(10, 2, "Vanessa cardui", 15, "vc2.jpg"),
	}
}

func buildSample(t *testing.T) *Tree {
	t.Helper()
	tree, err := Build(sampleLeads())
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	return tree
}

func leadIDs(steps []Lead) []int {
	ids := make([]int, len(steps))
	for i, s := range steps {
		ids[i] = s.LeadID
	}
	return ids
}

func intPtr(i int) *int { return &i }
