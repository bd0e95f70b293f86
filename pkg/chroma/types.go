package chroma

// Document is a unit of upsert: an identifier, free-text content, and
// optional metadata such as a topic tag. Re-upserting the same ID replaces
// the stored document.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]string
}

// Collection is a named document grouping owned by the Chroma server.
type Collection struct {
	ID       string
	Name     string
	Metadata map[string]string
}

// Result is a single kNN query hit. Lower Distance means closer.
type Result struct {
	ID       string
	Distance float64
	Content  string
	Metadata map[string]string
}

// Topic returns the topic tag from the result metadata, or "unknown".
func (r Result) Topic() string {
	if t, ok := r.Metadata["topic"]; ok && t != "" {
		return t
	}
	return "unknown"
}
