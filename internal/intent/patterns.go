package intent

import (
	"regexp"
	"strings"
)

// pattern binds a compiled expression to the category it signals.
// Named capture groups become slots on the parsed command.
type pattern struct {
	category Category
	re       *regexp.Regexp
}

// patternSet is the deterministic first tier. All expressions are
// matched case-insensitively against the trimmed utterance.
type patternSet struct {
	patterns []pattern
	priority map[Category]int
}

func newPatternSet() *patternSet {
	defs := []struct {
		category Category
		expr     string
	}{
		// Messaging. Recipient and body captured where the phrasing allows.
		{Messaging, `^(?:send|drop)\s+(?:a\s+)?(?:whatsapp\s+)?message\s+to\s+(?P<recipient>.+?)(?:\s+(?:that|saying)\s+(?P<body>.+))?$`},
		{Messaging, `^message\s+(?P<recipient>.+?)\s+(?:that|saying)\s+(?P<body>.+)$`},
		{Messaging, `^(?:whatsapp|text)\s+(?P<recipient>.+?)(?:\s+(?:that|saying)\s+(?P<body>.+))?$`},
		{Messaging, `^tell\s+(?P<recipient>.+?)\s+(?:that|saying)\s+(?P<body>.+)$`},
		{Messaging, `^(?:send|share)\s+it\s+(?:to|with)\s+(?P<recipient>.+)$`},

		// Email.
		{Email, `^(?:send\s+(?:an?\s+)?)?e?mail\s+(?:to\s+)?(?P<recipient>.+?)(?:\s+(?:about|regarding|saying|that)\s+(?P<body>.+))?$`},
		{Email, `^compose\s+(?:an?\s+)?e?mail\s+to\s+(?P<recipient>.+)$`},

		// Calendar.
		{Calendar, `^(?:schedule|create|set\s+up|add)\s+(?:a\s+|an\s+)?(?:meeting|event|appointment|reminder)(?:\s+(?P<details>.+))?$`},
		{Calendar, `^(?:remind\s+me)\s+(?:to\s+)?(?P<details>.+)$`},

		// Phone.
		{Phone, `^(?:call|dial|phone|ring)\s+(?P<recipient>.+)$`},

		// Payment.
		{Payment, `^(?:pay|send)\s+(?:rs\.?\s*|₹\s*)?(?P<amount>\d+(?:\.\d+)?)\s+(?:rupees\s+)?to\s+(?P<recipient>.+)$`},
		{Payment, `^(?:pay|transfer)\s+(?:money\s+)?to\s+(?P<recipient>.+)$`},

		// App launch.
		{AppLaunch, `^(?:open|launch|start)\s+(?P<app>.+)$`},

		// Web search.
		{WebSearch, `^(?:search|google|look\s+up)\s+(?:for\s+)?(?P<query>.+)$`},
		{WebSearch, `^(?:what|who|when|where|how)\s+(?:is|are|was|were)\s+(?P<query>.+)$`},

		// File lookup. The "open" forms need file context so that bare
		// "open chrome" still launches an app.
		{FileLookup, `^(?:find|locate|get)\s+(?:the\s+|my\s+)?(?:file|document|pdf|photo|picture|resume)\s*(?P<query>.*)$`},
		{FileLookup, `^(?:find|locate)\s+(?P<query>.+?\.(?:pdf|docx?|txt|jpe?g|png|xlsx?|pptx?))$`},
		{FileLookup, `^(?:open|show)\s+(?:the\s+|my\s+)?(?:file|document|attachment)\s+(?P<query>.+)$`},
		{FileLookup, `^(?:open|show)\s+(?:the\s+|my\s+)?(?P<query>.+?)\s+(?:file|document)$`},
		{FileLookup, `^(?:open|show)\s+(?P<query>.+?\.(?:pdf|docx?|txt|jpe?g|png|xlsx?|pptx?))$`},

		// Conversation.
		{Conversation, `^(?:hi|hello|hey|good\s+(?:morning|afternoon|evening))\b.*$`},
		{Conversation, `^(?:thanks?|thank\s+you)\b.*$`},
		{Conversation, `^how\s+are\s+you\b.*$`},
	}

	ps := &patternSet{priority: make(map[Category]int, len(Categories))}
	for i, c := range Categories {
		ps.priority[c] = i
	}
	for _, d := range defs {
		ps.patterns = append(ps.patterns, pattern{
			category: d.category,
			re:       regexp.MustCompile(`(?i)` + d.expr),
		})
	}
	return ps
}

// match runs the utterance through every pattern. When several match,
// the longest (most specific) expression wins; equal lengths fall back
// to category priority order.
func (ps *patternSet) match(utterance string) (*ParsedCommand, bool) {
	text := strings.TrimSpace(utterance)
	text = strings.TrimRight(text, ".!?")
	if text == "" {
		return nil, false
	}

	var best *pattern
	var bestSlots map[string]string
	for i := range ps.patterns {
		p := &ps.patterns[i]
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if best != nil && !ps.beats(p, best) {
			continue
		}
		best = p
		bestSlots = captureSlots(p.re, m)
	}
	if best == nil {
		return nil, false
	}
	return &ParsedCommand{
		Intent:     best.category,
		Confidence: 1.0,
		Slots:      bestSlots,
		Utterance:  utterance,
	}, true
}

func (ps *patternSet) beats(a, b *pattern) bool {
	la, lb := len(a.re.String()), len(b.re.String())
	if la != lb {
		return la > lb
	}
	return ps.priority[a.category] < ps.priority[b.category]
}

func captureSlots(re *regexp.Regexp, match []string) map[string]string {
	slots := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if name == "" || i >= len(match) {
			continue
		}
		if v := strings.TrimSpace(match[i]); v != "" {
			slots[name] = v
		}
	}
	if len(slots) == 0 {
		return nil
	}
	return slots
}
