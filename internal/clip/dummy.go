package clip

// Dummy is a no-op clipboard for environments without any usable clipboard
// (headless servers, containers, CI). It never holds data and never fails.
type Dummy struct{}

func (Dummy) Name() string              { return "dummy (no-op)" }
func (Dummy) Get(string) ([]byte, bool) { return nil, false }
func (Dummy) Put([]byte, string)        {}
func (Dummy) Formats() []string         { return []string{} }
