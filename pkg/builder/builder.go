package builder

// Builder is a construction company whose inspections the platform schedules.
type Builder struct {
	Id            string
	Name          string
	ContactEmail  string
	ContactPhone  string
	Abbreviations []Abbreviation
}

// Abbreviation is a short code used in calendar event titles to reference a
// builder (e.g. "INTTEST"). At most one abbreviation per builder is primary.
type Abbreviation struct {
	Id           string
	BuilderId    string
	Abbreviation string
	IsPrimary    bool
}
