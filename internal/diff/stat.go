package diff

// Stats summarizes a delta list.
type Stats struct {
	Inserts      int `json:"inserts" yaml:"inserts"`
	Deletes      int `json:"deletes" yaml:"deletes"`
	Changes      int `json:"changes" yaml:"changes"`
	LinesAdded   int `json:"lines_added" yaml:"lines_added"`     // current-text lines introduced by inserts and changes
	LinesRemoved int `json:"lines_removed" yaml:"lines_removed"` // previous-text lines dropped by deletes and changes
}

// Stat counts deltas by kind and the lines they add and remove.
func Stat(deltas []Delta) Stats {
	var s Stats
	for _, d := range deltas {
		switch d.Kind {
		case KindInsert:
			s.Inserts++
		case KindDelete:
			s.Deletes++
		case KindChange:
			s.Changes++
		}
		s.LinesAdded += len(d.TargetLines)
		s.LinesRemoved += len(d.SourceLines)
	}
	return s
}

// Empty reports whether s describes no changes.
func (s Stats) Empty() bool {
	return s.Inserts == 0 && s.Deletes == 0 && s.Changes == 0
}
