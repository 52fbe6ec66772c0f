package analysis

import (
	"regexp"
	"strings"
)

// CitationKind classifies an extracted legal reference.
type CitationKind int

const (
	// CitationLaw is a "<number> sayılı ... kanunu" style reference.
	CitationLaw CitationKind = iota + 1
	// CitationArticle is a "madde N" or "md. N" reference.
	CitationArticle
	// CitationClause is a "fıkra N" reference.
	CitationClause
	// CitationItem is a "bent <letter>" reference.
	CitationItem
)

// Citation is one extracted reference with its captured number or letter.
type Citation struct {
	Kind      CitationKind
	Reference string // article/clause number, item letter, or law number
	LawName   string // captured law name, only for CitationLaw
}

// Citation patterns run over the cleaned, Turkish-lowercased text, so
// they only need lowercase variants. Go's \w and \b are ASCII; Turkish
// letters are matched with explicit classes where they can occur.
var (
	articleRefPattern = regexp.MustCompile(`(?:^|[^a-zçğıöşü])(?:madde|md\.?)\s*:?\s*(\d+(?:/\d+)?)`)
	lawRefPattern     = regexp.MustCompile(`(\d{1,4})\s*sayılı\s+([^.;]+?)?\s*(?:kanun|yasa|tüzük|yönetmelik)`)
	clauseRefPattern  = regexp.MustCompile(`(?:fıkra\s*:?\s*(\d+))|(?:(\d+)\s*(?:inci|nci|üncü|uncu)\s+fıkra)`)
	itemRefPattern    = regexp.MustCompile(`(?:bent\s*:?\s*\(?([a-zçğıöşü])\)?(?:$|[^a-zçğıöşü]))|(?:\(([a-zçğıöşü])\)\s*bend)`)
)

// extractCitations pulls every recognized reference out of the cleaned
// lowercased text. Duplicate references collapse to one citation.
func extractCitations(lowered string) []Citation {
	var citations []Citation
	seen := make(map[string]bool)

	add := func(c Citation) {
		key := string(rune('0'+int(c.Kind))) + ":" + c.Reference + ":" + c.LawName
		if seen[key] {
			return
		}
		seen[key] = true
		citations = append(citations, c)
	}

	for _, m := range articleRefPattern.FindAllStringSubmatch(lowered, -1) {
		add(Citation{Kind: CitationArticle, Reference: m[1]})
	}

	for _, m := range lawRefPattern.FindAllStringSubmatch(lowered, -1) {
		add(Citation{
			Kind:      CitationLaw,
			Reference: m[1],
			LawName:   strings.TrimSpace(m[2]),
		})
	}

	for _, m := range clauseRefPattern.FindAllStringSubmatch(lowered, -1) {
		ref := m[1]
		if ref == "" {
			ref = m[2]
		}
		add(Citation{Kind: CitationClause, Reference: ref})
	}

	for _, m := range itemRefPattern.FindAllStringSubmatch(lowered, -1) {
		ref := m[1]
		if ref == "" {
			ref = m[2]
		}
		add(Citation{Kind: CitationItem, Reference: ref})
	}

	return citations
}
