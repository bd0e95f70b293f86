package demo

import "github.com/kailas-cloud/chromactl/pkg/chroma"

// Corpus returns the topic-tagged sample articles seeded by the demo.
// IDs are stable so re-running the demo replaces rather than duplicates.
func Corpus() []chroma.Document {
	return []chroma.Document{
		{
			ID:       "history-01",
			Content:  "The fall of the Roman Empire marked the start of the Middle Ages and reshaped European politics.",
			Metadata: map[string]string{"topic": "history"},
		},
		{
			ID:       "ai-01",
			Content:  "Transformers revolutionized NLP by letting models learn long-range dependencies in text.",
			Metadata: map[string]string{"topic": "ai"},
		},
		{
			ID:       "ecology-01",
			Content:  "Deforestation harms biodiversity and increases greenhouse gas emissions.",
			Metadata: map[string]string{"topic": "ecology"},
		},
		{
			ID:       "sport-01",
			Content:  "Endurance training improves aerobic capacity and the cardiovascular health of athletes.",
			Metadata: map[string]string{"topic": "sport"},
		},
		{
			ID:       "economy-01",
			Content:  "Inflation and monetary policy are tightly linked to market expectations about prices.",
			Metadata: map[string]string{"topic": "economy"},
		},
		{
			ID:       "medicine-01",
			Content:  "mRNA vaccines trigger specific immune responses with much shorter development times.",
			Metadata: map[string]string{"topic": "medicine"},
		},
		{
			ID:       "technology-01",
			Content:  "Cloud computing makes applications easier to scale and simplifies managing distributed data.",
			Metadata: map[string]string{"topic": "technology"},
		},
		{
			ID:       "music-01",
			Content:  "1950s jazz explored modal improvisation and influenced generations of later musicians.",
			Metadata: map[string]string{"topic": "music"},
		},
		{
			ID:       "literature-01",
			Content:  "Magical realism in Latin America blended fantastic elements with everyday narratives.",
			Metadata: map[string]string{"topic": "literature"},
		},
		{
			ID:       "science-01",
			Content:  "The scientific method combines observation, hypothesis, experimentation, and analysis to validate theories.",
			Metadata: map[string]string{"topic": "science"},
		},
	}
}

// Query is one canned semantic query with the keyword set used by the
// heuristic evaluator.
type Query struct {
	Text     string
	Keywords []string
}

// Queries returns the canned demo queries.
func Queries() []Query {
	return []Query{
		{
			Text:     "How can a city reduce its environmental impact?",
			Keywords: []string{"environmental", "deforestation", "emissions", "biodiversity"},
		},
		{
			Text:     "What recent advances improved natural language processing?",
			Keywords: []string{"nlp", "transformers", "language", "models"},
		},
		{
			Text:     "What factors explain rising prices?",
			Keywords: []string{"inflation", "prices", "monetary", "market"},
		},
	}
}
