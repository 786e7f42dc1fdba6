package battle

// Level is the emphasis of a log entry when rendered.
type Level string

const (
	LevelParagraph Level = "paragraph"
	LevelHeading   Level = "heading"
)

// Entry is one record of the append-only battle log.
type Entry struct {
	Message string `json:"message"`
	Level   Level  `json:"level"`
	Bold    bool   `json:"bold"`
}

func (e *Engine) logEntry(msg string, level Level, bold bool) {
	entry := Entry{Message: msg, Level: level, Bold: bold}
	e.mu.Lock()
	e.entries = append(e.entries, entry)
	e.mu.Unlock()
	if e.observer != nil {
		e.observer(entry)
	}
	e.log.Debug().Str("entry", msg).Msg("battle log")
}

// Entries returns a copy of the battle log. It is cleared at battle start and
// only ever appended to while a battle runs; reading it mid-battle is safe.
func (e *Engine) Entries() []Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Entry, len(e.entries))
	copy(out, e.entries)
	return out
}
