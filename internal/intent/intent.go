// Package intent classifies free-form commands into a closed set of
// action categories. Classification is two-tiered: deterministic pattern
// matching first, a remote probabilistic backend only when patterns miss.
package intent

// Category is one of the closed set of recognized command intents.
type Category string

const (
	Messaging    Category = "messaging"
	Email        Category = "email"
	Calendar     Category = "calendar"
	Phone        Category = "phone"
	Payment      Category = "payment"
	AppLaunch    Category = "app_launch"
	WebSearch    Category = "web_search"
	FileLookup   Category = "file_lookup"
	Conversation Category = "conversation"
)

// Categories lists every valid category. Order doubles as routing
// priority when multiple patterns match with equal specificity.
var Categories = []Category{
	Messaging,
	Email,
	Calendar,
	Phone,
	Payment,
	AppLaunch,
	WebSearch,
	FileLookup,
	Conversation,
}

// Valid reports whether c names a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParsedCommand is the classifier's output: the chosen category, a
// confidence score, and whatever slots the matching tier extracted.
type ParsedCommand struct {
	Intent     Category          `json:"intent"`
	Confidence float64           `json:"confidence"`
	Slots      map[string]string `json:"slots,omitempty"`
	Utterance  string            `json:"utterance"`
}
