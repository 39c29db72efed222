package model

// Page is one page of extracted document text. Page numbers are 1-based
// and strictly increasing within a document.
type Page struct {
	Number int
	Text   string
}

// Document is a fully ingested source document. Immutable once produced
// by the ingestion layer.
type Document struct {
	Filename string // Identifier within the collection
	Title    string
	Content  string // Concatenated text of all pages
	Pages    []Page
}

// Section is a contiguous, titled span of a document's text, the primary
// ranking unit. RelevanceScore and ImportanceRank are zero until the
// ranker assigns them.
type Section struct {
	Document       string
	Title          string
	Content        string
	PageNumber     int // Best-effort estimate from character offset
	RelevanceScore float64
	ImportanceRank int
}

// Subsection is a shortened, rewritten excerpt derived from a selected
// Section. Immutable once created by the refiner.
type Subsection struct {
	Document     string
	RefinedText  string
	PageNumber   int // Inherited from the parent section
	QualityScore float64
}

// PersonaProfile describes who is reading the collection.
type PersonaProfile struct {
	Role           string
	ExpertiseAreas []string
	FocusKeywords  []string // Derived from the role description
}

// JobProfile describes what the persona needs to accomplish.
type JobProfile struct {
	Task            string
	Requirements    []string // Derived requirement tags
	SuccessCriteria []string
}
