package domain

// Category tags a log line
type Category string

// Log categories
const (
	CatMethod    Category = "method"
	CatFilter    Category = "filter"
	CatRateLimit Category = "ratelimit"
	CatWorker    Category = "worker"
	CatLookup    Category = "lookup"
)

// Event is one of MatchFound, Progress, LogLine or Finished
type Event interface {
	Kind() string
}

// MatchFound is emitted once per accepted attempt, in completion order
type MatchFound struct {
	Match Match `json:"match"`
}

// Progress reports found/target; never emitted in nonstop mode
type Progress struct {
	Found  int `json:"found"`
	Target int `json:"target"`
}

// LogLine is a diagnostic line
type LogLine struct {
	Category Category `json:"category"`
	Text     string   `json:"text"`
}

// Finished is the last event of a run
type Finished struct {
	Total int `json:"total"`
}

// Kind implements Event
func (MatchFound) Kind() string { return "match" }

// Kind implements Event
func (Progress) Kind() string { return "progress" }

// Kind implements Event
func (LogLine) Kind() string { return "log" }

// Kind implements Event
func (Finished) Kind() string { return "finished" }

// String formats the line as "[category] text"
func (l LogLine) String() string { return "[" + string(l.Category) + "] " + l.Text }

// Emitter receives events. It is called from the scheduler goroutine for match, progress and
// finished events, and from attempt goroutines for log lines, so it must be safe for concurrent use.
type Emitter func(Event)

// ChanEmitter forwards events into ch; sends block, so the reader must keep up
func ChanEmitter(ch chan<- Event) Emitter {
	return func(e Event) { ch <- e }
}

// Discard drops every event
func Discard(Event) {}
