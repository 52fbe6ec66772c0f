package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing so that identical input
// always produces the same identity.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ArticleID derives the stable identity of an article from its document
// and article number. Re-ingesting the same article keeps the same ID even
// when the content changed; content changes are tracked via ContentHash.
func ArticleID(documentID, articleNo string) ID {
	return IDFromContent(documentID + "\x00" + articleNo)
}

// Document types found in Turkish legislation corpora.
const (
	DocTypeKanun      = "KANUN"
	DocTypeTuzuk      = "TUZUK"
	DocTypeYonetmelik = "YONETMELIK"
	DocTypeGenelge    = "GENELGE"
	DocTypeKararname  = "KARARNAME"
	DocTypeTeblig     = "TEBLIG"
)

// Article is the unit of indexing: one article of one legal document.
// An article is immutable once indexed; re-ingestion with a different
// ContentHash replaces it.
type Article struct {
	Id            ID
	DocumentID    string
	ArticleNo     string
	DocumentType  string
	ContentRaw    string
	ContentNorm   string // diacritic-preserving canonical form
	ContentFolded string // ASCII-folded alternate form
	Position      int    // order of the article within its document
	ContentHash   ID     // IDFromContent(ContentRaw)
	Repealed      bool
	InsertedAt    time.Time
	UpdatedAt     time.Time
}

// TokenCount reports the number of tokens in the canonical form.
// Used as the article-length tie-breaker during lexical scoring.
func (a *Article) TokenCount() int {
	n := 0
	inTok := false
	for _, r := range a.ContentNorm {
		if r == ' ' {
			inTok = false
			continue
		}
		if !inTok {
			n++
			inTok = true
		}
	}
	return n
}

// EmbeddingVector is the semantic representation of one article.
// It is derived deterministically from Article.ContentNorm and recomputed
// whenever the article's ContentHash changes.
type EmbeddingVector struct {
	ArticleId ID
	VocabGen  uint64 // vocabulary generation the vector was computed with
	Values    []float32
}

// Manifest records the state of a published snapshot bundle. It is
// required to detect vocabulary drift between stored vectors and the
// vectorizer that will serve queries.
type Manifest struct {
	Version      uint64
	VocabGen     uint64
	ArticleCount uint64
	CreatedAt    time.Time
}

// HighlightSpan is a character offset pair into Article.ContentRaw
// marking a matched term. End is exclusive.
type HighlightSpan struct {
	Start int
	End   int
}

// MatchType identifies which retrieval backends produced a result.
type MatchType int

const (
	// MatchLexical means the article was found by the lexical backend only.
	MatchLexical MatchType = iota + 1
	// MatchSemantic means the article was found by the semantic backend only.
	MatchSemantic
	// MatchHybrid means both backends found the article.
	MatchHybrid
)

// String returns a human readable name for the match type.
func (m MatchType) String() string {
	switch m {
	case MatchLexical:
		return "lexical"
	case MatchSemantic:
		return "semantic"
	case MatchHybrid:
		return "hybrid"
	default:
		return "unknown"
	}
}

// Candidate is a raw (article, score) pair produced by one retrieval
// backend before fusion.
type Candidate struct {
	ArticleId ID
	Score     float64
}

// SearchResult is one fused, highlighted hit.
type SearchResult struct {
	ArticleId     ID
	DocumentID    string
	ArticleNo     string
	DocumentType  string
	ContentRaw    string
	LexicalScore  float64
	SemanticScore float64
	FusedScore    float64
	Match         MatchType
	Highlights    []HighlightSpan
}
