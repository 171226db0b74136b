package extraction

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Extractor builds an ExtractionRecord from raw HTML. It is the boundary
// adapter for callers that have markup but no crawler of their own; the
// evaluation engine itself only consumes the record.
type Extractor struct{}

// NewExtractor creates a new Extractor instance
func NewExtractor() *Extractor {
	return &Extractor{}
}

var socialPlatforms = map[string]string{
	"facebook.com":  "facebook",
	"fb.com":        "facebook",
	"twitter.com":   "twitter",
	"x.com":         "twitter",
	"instagram.com": "instagram",
	"youtube.com":   "youtube",
	"youtu.be":      "youtube",
	"linkedin.com":  "linkedin",
	"tiktok.com":    "tiktok",
}

var messagingHosts = []string{
	"wa.me",
	"api.whatsapp.com",
	"web.whatsapp.com",
	"t.me",
	"telegram.me",
	"m.me",
}

var genericLinkTexts = map[string]bool{
	"ver más":         true,
	"ver mas":         true,
	"leer más":        true,
	"leer mas":        true,
	"clic aquí":       true,
	"haga clic aquí":  true,
	"aquí":            true,
	"más información": true,
	"click here":      true,
	"see more":        true,
	"read more":       true,
}

var trackerHosts = []string{
	"google-analytics.com",
	"googletagmanager.com",
	"analytics.google.com",
	"connect.facebook.net",
	"hotjar.com",
	"clarity.ms",
	"doubleclick.net",
	"mixpanel.com",
	"segment.io",
}

var fontHosts = []string{
	"fonts.googleapis.com",
	"fonts.gstatic.com",
	"use.typekit.net",
	"use.fontawesome.com",
	"fonts.bunny.net",
}

var cdnHosts = []string{
	"cdn.jsdelivr.net",
	"cdnjs.cloudflare.com",
	"unpkg.com",
	"ajax.googleapis.com",
	"stackpath.bootstrapcdn.com",
	"maxcdn.bootstrapcdn.com",
}

var obsoleteTagNames = []string{
	"font", "center", "marquee", "blink", "big", "strike",
	"frame", "frameset", "applet", "acronym",
}

var semanticTagNames = []string{
	"main", "header", "footer", "nav", "article", "section", "aside", "figure",
}

// Extract parses html and produces the structured record for pageURL.
// pageURL is only used to tell internal resources from external ones.
func (e *Extractor) Extract(html string, pageURL string) (*ExtractionRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	pageHost := ""
	if u, err := url.Parse(pageURL); err == nil {
		pageHost = strings.TrimPrefix(u.Hostname(), "www.")
	}

	record := &ExtractionRecord{URL: pageURL}
	record.Metadata = e.extractMetadata(doc)
	record.Structure = e.extractStructure(doc, html)
	record.SemanticElements = e.extractSemanticElements(doc)
	record.Headings = e.extractHeadings(doc)
	record.Images = e.extractImages(doc)
	record.Links = e.extractLinks(doc)
	record.Forms = e.extractForms(doc)
	record.Media = e.extractMedia(doc)
	record.ExternalResources = e.extractExternalResources(doc, pageHost)
	record.TextCorpus = e.extractTextCorpus(doc)

	return record, nil
}

func (e *Extractor) extractMetadata(doc *goquery.Document) Metadata {
	meta := Metadata{}

	meta.Title = strings.TrimSpace(doc.Find("title").First().Text())
	meta.Language, _ = doc.Find("html").Attr("lang")
	meta.Language = strings.TrimSpace(meta.Language)
	meta.Description, _ = doc.Find("meta[name='description']").Attr("content")
	meta.Keywords, _ = doc.Find("meta[name='keywords']").Attr("content")
	meta.Viewport, _ = doc.Find("meta[name='viewport']").Attr("content")

	return meta
}

func (e *Extractor) extractStructure(doc *goquery.Document, html string) Structure {
	s := Structure{}

	// The parser normalizes the document, so the doctype is read from the
	// raw markup instead.
	head := strings.ToLower(strings.TrimSpace(html))
	if strings.HasPrefix(head, "<!doctype") {
		s.HasDoctype = true
		s.HTML5Doctype = strings.HasPrefix(head, "<!doctype html>")
	}

	if charset, exists := doc.Find("meta[charset]").Attr("charset"); exists {
		s.Charset = strings.ToLower(strings.TrimSpace(charset))
	} else if content, exists := doc.Find("meta[http-equiv='Content-Type']").Attr("content"); exists {
		if idx := strings.Index(strings.ToLower(content), "charset="); idx >= 0 {
			s.Charset = strings.ToLower(strings.TrimSpace(content[idx+len("charset="):]))
		}
	}

	for _, tag := range obsoleteTagNames {
		if count := doc.Find(tag).Length(); count > 0 {
			s.ObsoleteTags = append(s.ObsoleteTags, ObsoleteTag{Tag: tag, Count: count})
		}
	}

	s.Hierarchy = e.analyzeHierarchy(doc)
	return s
}

func (e *Extractor) analyzeHierarchy(doc *goquery.Document) HierarchyAnalysis {
	h := HierarchyAnalysis{Valid: true, MainTopLevel: true, NavInLandmark: true}

	h.MainCount = doc.Find("main").Length()
	if h.MainCount > 1 {
		h.Valid = false
		h.Issues = append(h.Issues, "multiple <main> elements")
	}

	doc.Find("main").Each(func(_ int, s *goquery.Selection) {
		parent := goquery.NodeName(s.Parent())
		if parent != "body" && parent != "div" {
			h.MainTopLevel = false
			h.Valid = false
			h.Issues = append(h.Issues, "<main> nested inside <"+parent+">")
		}
	})

	// A nav floating outside every landmark suggests a purely visual layout.
	doc.Find("nav").Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered("header, footer, main, aside").Length() == 0 &&
			goquery.NodeName(s.Parent()) != "body" {
			h.NavInLandmark = false
		}
	})

	generic := doc.Find("div, span").Length()
	structural := generic
	for _, tag := range semanticTagNames {
		structural += doc.Find(tag).Length()
	}
	if structural > 0 {
		h.GenericRatio = float64(generic) / float64(structural) * 100
	}
	switch {
	case h.GenericRatio > 90:
		h.Severity = "severa"
	case h.GenericRatio > 75:
		h.Severity = "alta"
	case h.GenericRatio > 60:
		h.Severity = "moderada"
	}

	return h
}

func (e *Extractor) extractSemanticElements(doc *goquery.Document) SemanticElements {
	counts := make(map[string]int, len(semanticTagNames))
	for _, tag := range semanticTagNames {
		if n := doc.Find(tag).Length(); n > 0 {
			counts[tag] = n
		}
	}
	return SemanticElements{Counts: counts}
}

func (e *Extractor) extractHeadings(doc *goquery.Document) Headings {
	headings := Headings{HierarchyValid: true}

	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		level, err := strconv.Atoi(strings.TrimPrefix(goquery.NodeName(s), "h"))
		if err != nil {
			return
		}
		headings.Items = append(headings.Items, Heading{
			Level: level,
			Text:  strings.TrimSpace(s.Text()),
		})
	})

	prev := 0
	for _, item := range headings.Items {
		if item.Level == 1 {
			headings.H1Count++
		}
		if prev > 0 && item.Level > prev+1 {
			headings.HierarchyValid = false
		}
		prev = item.Level
	}
	if len(headings.Items) > 0 && headings.Items[0].Level != 1 {
		headings.HierarchyValid = false
	}

	return headings
}

func (e *Extractor) extractImages(doc *goquery.Document) Images {
	images := Images{}

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		images.Total++
		if alt, exists := s.Attr("alt"); exists {
			if strings.TrimSpace(alt) == "" {
				images.WithEmptyAlt++
			} else {
				images.WithAlt++
			}
		}
	})

	return images
}

func (e *Extractor) extractLinks(doc *goquery.Document) Links {
	links := Links{}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || href == "#" {
			return
		}
		links.Total++

		text := strings.TrimSpace(s.Text())
		link := Link{Href: href, Text: text}

		switch {
		case strings.HasPrefix(href, "mailto:"):
			links.Email = append(links.Email, link)
			return
		case strings.HasPrefix(href, "tel:"):
			links.Phone = append(links.Phone, link)
			return
		}

		host := linkHost(href)

		if platform, ok := matchSocialPlatform(host); ok {
			if isShareLink(href) {
				links.ShareButtons = append(links.ShareButtons, link)
			} else {
				links.Social = append(links.Social, SocialLink{Platform: platform, Href: href})
			}
			return
		}

		for _, mh := range messagingHosts {
			if host == mh {
				links.Messaging = append(links.Messaging, link)
				return
			}
		}

		if text == "" {
			// Icon-only anchors with an aria-label still carry a name.
			if label, exists := s.Attr("aria-label"); !exists || strings.TrimSpace(label) == "" {
				links.Empty = append(links.Empty, link)
			}
			return
		}
		if genericLinkTexts[strings.ToLower(text)] {
			links.Generic = append(links.Generic, link)
		}
	})

	return links
}

func linkHost(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

func matchSocialPlatform(host string) (string, bool) {
	for domain, platform := range socialPlatforms {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return platform, true
		}
	}
	return "", false
}

func isShareLink(href string) bool {
	lower := strings.ToLower(href)
	return strings.Contains(lower, "/share") ||
		strings.Contains(lower, "sharer") ||
		strings.Contains(lower, "intent/tweet")
}

func (e *Extractor) extractForms(doc *goquery.Document) Forms {
	forms := Forms{Total: doc.Find("form").Length()}

	labelTargets := make(map[string]bool)
	doc.Find("label[for]").Each(func(_ int, s *goquery.Selection) {
		if id, exists := s.Attr("for"); exists {
			labelTargets[id] = true
		}
	})

	doc.Find("form input, form select, form textarea").Each(func(_ int, s *goquery.Selection) {
		inputType, _ := s.Attr("type")
		switch inputType {
		case "hidden", "submit", "button", "image":
			return
		}

		name, _ := s.Attr("name")
		input := FormInput{Type: inputType, Name: name, LabelResolution: LabelNone}

		id, _ := s.Attr("id")
		_, hasPlaceholder := s.Attr("placeholder")
		ariaLabel, hasAria := s.Attr("aria-label")
		_, hasAriaRef := s.Attr("aria-labelledby")

		switch {
		case id != "" && labelTargets[id]:
			input.LabelResolution = LabelFor
		case s.ParentsFiltered("label").Length() > 0:
			input.LabelResolution = LabelWrapped
		case (hasAria && strings.TrimSpace(ariaLabel) != "") || hasAriaRef:
			input.LabelResolution = LabelAria
		case hasPlaceholder:
			input.LabelResolution = LabelPlaceholderOnly
		}

		forms.Inputs = append(forms.Inputs, input)
	})

	return forms
}

func (e *Extractor) extractMedia(doc *goquery.Document) Media {
	media := Media{}

	doc.Find("video, audio").Each(func(_ int, s *goquery.Selection) {
		item := MediaElement{Kind: goquery.NodeName(s)}
		s.Find("track").Each(func(_ int, track *goquery.Selection) {
			if kind, _ := track.Attr("kind"); kind == "captions" || kind == "subtitles" {
				item.HasCaptions = true
			}
		})
		media.Items = append(media.Items, item)
	})

	doc.Find("iframe[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		host := linkHost(src)
		if strings.Contains(host, "youtube") || strings.Contains(host, "vimeo") {
			title, _ := s.Attr("title")
			media.Items = append(media.Items, MediaElement{Kind: "iframe", Title: title})
		}
	})

	return media
}

func (e *Extractor) extractExternalResources(doc *goquery.Document, pageHost string) ExternalResources {
	res := ExternalResources{}
	seen := make(map[string]bool)

	addHost := func(raw string) string {
		host := linkHost(raw)
		if host == "" || host == pageHost || strings.HasSuffix(host, "."+pageHost) {
			return ""
		}
		if !seen[host] {
			seen[host] = true
			res.Domains = append(res.Domains, host)
		}
		return host
	}

	categorize := func(host string) {
		if host == "" {
			return
		}
		for _, t := range trackerHosts {
			if host == t || strings.HasSuffix(host, "."+t) {
				res.Trackers = append(res.Trackers, host)
				return
			}
		}
		for _, f := range fontHosts {
			if host == f {
				res.Fonts = append(res.Fonts, host)
				return
			}
		}
		for _, c := range cdnHosts {
			if host == c {
				res.CDNs = append(res.CDNs, host)
				return
			}
		}
	}

	doc.Find("script[src], link[href], img[src]").Each(func(_ int, s *goquery.Selection) {
		src, exists := s.Attr("src")
		if !exists {
			src, _ = s.Attr("href")
		}
		categorize(addHost(src))
	})

	doc.Find("iframe[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if host := addHost(src); host != "" {
			title, _ := s.Attr("title")
			res.Iframes = append(res.Iframes, Iframe{Src: src, Title: title})
			categorize(host)
		}
	})

	return res
}

func (e *Extractor) extractTextCorpus(doc *goquery.Document) TextCorpus {
	corpus := TextCorpus{}

	corpus.HeaderText = collapseSpace(doc.Find("header").First().Text())
	corpus.FooterText = collapseSpace(doc.Find("footer").First().Text())
	corpus.FullText = collapseSpace(doc.Find("body").Text())

	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		content := collapseSpace(s.NextUntil("h1, h2, h3, h4, h5, h6").Text())
		corpus.Sections = append(corpus.Sections, Section{
			Heading:   strings.TrimSpace(s.Text()),
			Content:   content,
			WordCount: len(strings.Fields(content)),
		})
	})

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			corpus.LinkTexts = append(corpus.LinkTexts, text)
		}
	})
	doc.Find("button").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			corpus.ButtonTexts = append(corpus.ButtonTexts, text)
		}
	})
	doc.Find("input[type='submit'][value]").Each(func(_ int, s *goquery.Selection) {
		if value, _ := s.Attr("value"); strings.TrimSpace(value) != "" {
			corpus.ButtonTexts = append(corpus.ButtonTexts, strings.TrimSpace(value))
		}
	})
	doc.Find("label").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			corpus.LabelTexts = append(corpus.LabelTexts, text)
		}
	})

	return corpus
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
