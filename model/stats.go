package model

// Counts holds the basic wc-style counters for one input or a total.
type Counts struct {
	Lines      int `json:"lines"`
	Words      int `json:"words"`
	Characters int `json:"characters"`
}

// Add returns the field-wise sum of c and other.
func (c Counts) Add(other Counts) Counts {
	return Counts{
		Lines:      c.Lines + other.Lines,
		Words:      c.Words + other.Words,
		Characters: c.Characters + other.Characters,
	}
}

// RankedEntry is one row of a frequency ranking.
type RankedEntry struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

// InputResult is the outcome of processing a single named input.
// Err is non-nil when the input could not be read, in which case Counts is
// the zero value and the input contributed nothing to any total.
type InputResult struct {
	Name   string `json:"name"`
	Counts Counts `json:"counts"`
	Err    error  `json:"-"`
	Error  string `json:"error,omitempty"` // Err.Error(), for JSON consumers
}

// Failed reports whether the input could not be read.
func (r InputResult) Failed() bool { return r.Err != nil }

// Report is the raw result of an analysis run: everything an output
// renderer needs and nothing about formatting.
type Report struct {
	Inputs  []InputResult `json:"inputs"`
	Total   Counts        `json:"total"`
	Ranking []RankedEntry `json:"ranking,omitempty"`
	// Failed is set when at least one input could not be read.
	Failed bool `json:"failed"`
}

// ShowTotal reports whether a wc-style total row applies, which is the
// case whenever more than one input was requested.
func (r *Report) ShowTotal() bool { return len(r.Inputs) > 1 }

// Succeeded returns the number of inputs that were read successfully.
func (r *Report) Succeeded() int {
	n := 0
	for _, in := range r.Inputs {
		if !in.Failed() {
			n++
		}
	}
	return n
}

// TextInput is a named blob of text supplied directly by a caller, as
// opposed to a path the input provider resolves.
type TextInput struct {
	Name string `json:"name"`
	Text string `json:"text"`
}
