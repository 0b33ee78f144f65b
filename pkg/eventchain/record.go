package eventchain

// Record is one chain-result entry produced by a dispatch level.
// Event is the name the action's output republished under (the action's
// own name), Result is the action's parsed output, and Chain holds the
// records of the recursive dispatch that output triggered.
//
// Records form a tree whose depth equals the number of hops through the
// event graph before no further subscribers exist.
type Record struct {
	Event  string   `json:"event_name"`
	Result any      `json:"result"`
	Chain  []Record `json:"chain,omitempty"`
}

// Flatten converts a nested record tree into one flat ordered sequence.
// For each record it emits the {event, result} pair followed immediately,
// depth-first, by the flattened contents of its chain.
//
// Flatten does not mutate its input and is idempotent on already-flat
// input.
func Flatten(records []Record) []Record {
	flat := make([]Record, 0, len(records))
	for _, r := range records {
		flat = append(flat, Record{Event: r.Event, Result: r.Result})
		if len(r.Chain) > 0 {
			flat = append(flat, Flatten(r.Chain)...)
		}
	}
	return flat
}
