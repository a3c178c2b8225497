package station

// SummaryLine is one label/value row of the verification summary.
type SummaryLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SummarySection groups summary rows under a heading.
type SummarySection struct {
	Title string        `json:"title"`
	Lines []SummaryLine `json:"lines"`
}

// Summary is the read-only view shown before final submission.
type Summary struct {
	Sections []SummarySection `json:"sections"`
}

// Summarize renders the draft as it is shown on the verification step.
// Values are rendered as entered; no validation happens here.
func Summarize(d Draft) Summary {
	description := d.Description
	if description == "" {
		description = "N/A"
	}
	return Summary{
		Sections: []SummarySection{
			{
				Title: "Station Details",
				Lines: []SummaryLine{
					{Label: "Name", Value: d.Name},
					{Label: "Address", Value: FullAddress(d.Address, d.City, d.State, d.Zip)},
					{Label: "Description", Value: description},
				},
			},
			{
				Title: "Technical Specifications",
				Lines: []SummaryLine{
					{Label: "Charger Type", Value: d.ChargerType.Label()},
					{Label: "Power Output", Value: FormatNumber(d.Power) + " kW"},
					{Label: "Price", Value: FormatNumber(d.Price) + " SOL per kWh"},
					{Label: "Connector Types", Value: d.ConnectorTypes},
				},
			},
		},
	}
}

// Lookup returns the value of the row labelled label.
func (s Summary) Lookup(label string) (string, bool) {
	for _, section := range s.Sections {
		for _, line := range section.Lines {
			if line.Label == label {
				return line.Value, true
			}
		}
	}
	return "", false
}
