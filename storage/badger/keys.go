package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/kodeks/mevzu/core"
)

// Key prefixes for different data types
const (
	articlePrefix    = "artrec"
	articleDocPrefix = "artdoc"
	vectorPrefix     = "vecrec"
	manifestKey      = "idxman"
)

// makeArticleKey generates a key for an article by ID.
func makeArticleKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", articlePrefix, id))
}

// makeVectorKey generates a key for an embedding vector by article ID.
func makeVectorKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", vectorPrefix, id))
}

// makeArticleDocKey generates a composite key for the document index.
// Format: prefix:documentID\x00position:id
// The NUL byte terminates the variable-length document id so one
// document's prefix never matches another's. Fixed-width fields are
// BigEndian so lexicographic sort orders by position.
func makeArticleDocKey(documentID string, position int, id core.ID) []byte {
	prefix := articleDocPrefix + ":"
	totalSize := len(prefix) + len(documentID) + 1 + 16
	buf := make([]byte, totalSize)
	offset := copy(buf, prefix)
	offset += copy(buf[offset:], documentID)
	buf[offset] = 0
	offset++
	binary.BigEndian.PutUint64(buf[offset:], uint64(int64(position)))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialArticleDocKey generates a prefix for scanning all
// articles of a document.
func makePartialArticleDocKey(documentID string) []byte {
	prefix := articleDocPrefix + ":"
	buf := make([]byte, len(prefix)+len(documentID)+1)
	offset := copy(buf, prefix)
	offset += copy(buf[offset:], documentID)
	buf[offset] = 0
	return buf
}

// makeManifestKey generates the key for the index manifest.
func makeManifestKey() []byte {
	return []byte(manifestKey)
}
