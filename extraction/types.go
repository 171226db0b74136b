package extraction

// ExtractionRecord is the structured snapshot of a single page as produced by
// the crawler. Every field is optional: a missing key in the source JSON
// decodes to the zero value, and evaluators treat zero values as "not
// present" rather than as an error. The record is read-only once built.
type ExtractionRecord struct {
	URL               string            `json:"url"`
	Metadata          Metadata          `json:"metadata"`
	Structure         Structure         `json:"structure"`
	SemanticElements  SemanticElements  `json:"semantic_elements"`
	Headings          Headings          `json:"headings"`
	Images            Images            `json:"images"`
	Links             Links             `json:"links"`
	Forms             Forms             `json:"forms"`
	Media             Media             `json:"media"`
	ExternalResources ExternalResources `json:"external_resources"`
	TextCorpus        TextCorpus        `json:"text_corpus"`
}

type Metadata struct {
	Title       string `json:"title"`
	Language    string `json:"language"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
	Viewport    string `json:"viewport"`
}

type Structure struct {
	HasDoctype    bool              `json:"hasDoctype"`
	HTML5Doctype  bool              `json:"html5Doctype"`
	Charset       string            `json:"charset"`
	ObsoleteTags  []ObsoleteTag     `json:"obsoleteTags"`
	Hierarchy     HierarchyAnalysis `json:"hierarchy"`
}

// ObsoleteTag is one deprecated-markup finding (font, center, marquee...).
type ObsoleteTag struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// HierarchyAnalysis summarizes the document landmark layout. GenericRatio is
// the share (0-100) of div/span containers among all structural containers;
// Severity is set by the crawler when the layout is div-soup beyond repair.
type HierarchyAnalysis struct {
	Valid         bool     `json:"valid"`
	Issues        []string `json:"issues"`
	GenericRatio  float64  `json:"genericRatio"`
	Severity      string   `json:"severity"`
	MainCount     int      `json:"mainCount"`
	MainTopLevel  bool     `json:"mainTopLevel"`
	NavInLandmark bool     `json:"navInLandmark"`
}

// SemanticElements carries the per-tag presence counts for structural
// elements (main, header, footer, nav, article, section, aside...).
type SemanticElements struct {
	Counts map[string]int `json:"counts"`
}

// Count returns the number of occurrences of tag, zero when absent.
func (s SemanticElements) Count(tag string) int {
	if s.Counts == nil {
		return 0
	}
	return s.Counts[tag]
}

type Headings struct {
	Items          []Heading `json:"items"`
	HierarchyValid bool      `json:"hierarchyValid"`
	H1Count        int       `json:"h1Count"`
}

type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

type Images struct {
	Total        int `json:"total"`
	WithAlt      int `json:"withAlt"`
	WithEmptyAlt int `json:"withEmptyAlt"`
}

// Link is a single anchor as seen by the crawler.
type Link struct {
	Href string `json:"href"`
	Text string `json:"text"`
}

// SocialLink is an anchor pointing at a recognized social platform.
type SocialLink struct {
	Platform string `json:"platform"`
	Href     string `json:"href"`
}

type Links struct {
	Total        int          `json:"total"`
	Social       []SocialLink `json:"social"`
	Messaging    []Link       `json:"messaging"`
	Email        []Link       `json:"email"`
	Phone        []Link       `json:"phone"`
	Generic      []Link       `json:"generic"`
	Empty        []Link       `json:"empty"`
	ShareButtons []Link       `json:"shareButtons"`
}

// FormInput records how (or whether) an input resolved to a label.
type FormInput struct {
	Type            string `json:"type"`
	Name            string `json:"name"`
	LabelResolution string `json:"labelResolution"` // label_for, wrapped, aria, placeholder_only, none
}

// Labeled reports whether the input has an accessible name beyond a bare
// placeholder.
func (f FormInput) Labeled() bool {
	switch f.LabelResolution {
	case LabelFor, LabelWrapped, LabelAria:
		return true
	}
	return false
}

const (
	LabelFor             = "label_for"
	LabelWrapped         = "wrapped"
	LabelAria            = "aria"
	LabelPlaceholderOnly = "placeholder_only"
	LabelNone            = "none"
)

type Forms struct {
	Total  int         `json:"total"`
	Inputs []FormInput `json:"inputs"`
}

// MediaElement is a video, audio or embedded player found on the page.
type MediaElement struct {
	Kind          string `json:"kind"` // video, audio, iframe
	HasCaptions   bool   `json:"hasCaptions"`
	HasTranscript bool   `json:"hasTranscript"`
	Title         string `json:"title"`
}

type Media struct {
	Items []MediaElement `json:"items"`
}

type Iframe struct {
	Src   string `json:"src"`
	Title string `json:"title"`
}

// ExternalResources lists every third-party host the page pulls from.
// Domains is the full host list; Trackers/CDNs/Fonts are the crawler's
// first-pass categorization of the same hosts.
type ExternalResources struct {
	Domains  []string `json:"domains"`
	Trackers []string `json:"trackers"`
	CDNs     []string `json:"cdns"`
	Fonts    []string `json:"fonts"`
	Iframes  []Iframe `json:"iframes"`
}

// Section is one heading with the text content beneath it.
type Section struct {
	Heading   string `json:"heading"`
	Content   string `json:"content"`
	WordCount int    `json:"wordCount"`
}

type TextCorpus struct {
	HeaderText  string    `json:"headerText"`
	FooterText  string    `json:"footerText"`
	Sections    []Section `json:"sections"`
	LinkTexts   []string  `json:"linkTexts"`
	ButtonTexts []string  `json:"buttonTexts"`
	LabelTexts  []string  `json:"labelTexts"`
	FullText    string    `json:"fullText"`
}
