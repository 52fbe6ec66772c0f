package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for every persisted type. Hand written rather than
// generated: the vector payload uses fixed-width floats and timestamps
// are stored as unix microseconds.
var (
	IDMUS              = idMUS{}
	ArticleMUS         = articleMUS{}
	EmbeddingVectorMUS = embeddingVectorMUS{}
	ManifestMUS        = manifestMUS{}

	float32SliceMUS = ord.NewSliceSer[float32](raw.Float32)
)

type idMUS struct{}

func (idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

type articleMUS struct{}

func (s articleMUS) Marshal(v Article, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.DocumentID, bs[n:])
	n += ord.String.Marshal(v.ArticleNo, bs[n:])
	n += ord.String.Marshal(v.DocumentType, bs[n:])
	n += ord.String.Marshal(v.ContentRaw, bs[n:])
	n += ord.String.Marshal(v.ContentNorm, bs[n:])
	n += ord.String.Marshal(v.ContentFolded, bs[n:])
	n += varint.Int.Marshal(v.Position, bs[n:])
	n += IDMUS.Marshal(v.ContentHash, bs[n:])
	n += ord.Bool.Marshal(v.Repealed, bs[n:])
	n += marshalTime(v.InsertedAt, bs[n:])
	n += marshalTime(v.UpdatedAt, bs[n:])
	return n
}

func (s articleMUS) Unmarshal(bs []byte) (v Article, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.DocumentID, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ArticleNo, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.DocumentType, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ContentRaw, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ContentNorm, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ContentFolded, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Position, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ContentHash, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Repealed, n1, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.InsertedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.UpdatedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (s articleMUS) Size(v Article) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.DocumentID)
	size += ord.String.Size(v.ArticleNo)
	size += ord.String.Size(v.DocumentType)
	size += ord.String.Size(v.ContentRaw)
	size += ord.String.Size(v.ContentNorm)
	size += ord.String.Size(v.ContentFolded)
	size += varint.Int.Size(v.Position)
	size += IDMUS.Size(v.ContentHash)
	size += ord.Bool.Size(v.Repealed)
	size += sizeTime(v.InsertedAt)
	size += sizeTime(v.UpdatedAt)
	return size
}

type embeddingVectorMUS struct{}

func (s embeddingVectorMUS) Marshal(v EmbeddingVector, bs []byte) (n int) {
	n = IDMUS.Marshal(v.ArticleId, bs)
	n += varint.Uint64.Marshal(v.VocabGen, bs[n:])
	n += float32SliceMUS.Marshal(v.Values, bs[n:])
	return n
}

func (s embeddingVectorMUS) Unmarshal(bs []byte) (v EmbeddingVector, n int, err error) {
	var n1 int
	if v.ArticleId, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.VocabGen, n1, err = varint.Uint64.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Values, n1, err = float32SliceMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (s embeddingVectorMUS) Size(v EmbeddingVector) (size int) {
	size = IDMUS.Size(v.ArticleId)
	size += varint.Uint64.Size(v.VocabGen)
	size += float32SliceMUS.Size(v.Values)
	return size
}

type manifestMUS struct{}

func (s manifestMUS) Marshal(v Manifest, bs []byte) (n int) {
	n = varint.Uint64.Marshal(v.Version, bs)
	n += varint.Uint64.Marshal(v.VocabGen, bs[n:])
	n += varint.Uint64.Marshal(v.ArticleCount, bs[n:])
	n += marshalTime(v.CreatedAt, bs[n:])
	return n
}

func (s manifestMUS) Unmarshal(bs []byte) (v Manifest, n int, err error) {
	var n1 int
	if v.Version, n, err = varint.Uint64.Unmarshal(bs); err != nil {
		return
	}
	if v.VocabGen, n1, err = varint.Uint64.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ArticleCount, n1, err = varint.Uint64.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.CreatedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (s manifestMUS) Size(v Manifest) (size int) {
	size = varint.Uint64.Size(v.Version)
	size += varint.Uint64.Size(v.VocabGen)
	size += varint.Uint64.Size(v.ArticleCount)
	size += sizeTime(v.CreatedAt)
	return size
}

// Timestamps persist as unix microseconds. The zero time maps to 0.

func marshalTime(t time.Time, bs []byte) int {
	var micros int64
	if !t.IsZero() {
		micros = t.UnixMicro()
	}
	return varint.Int64.Marshal(micros, bs)
}

func unmarshalTime(bs []byte) (time.Time, int, error) {
	micros, n, err := varint.Int64.Unmarshal(bs)
	if err != nil || micros == 0 {
		return time.Time{}, n, err
	}
	return time.UnixMicro(micros).UTC(), n, nil
}

func sizeTime(t time.Time) int {
	var micros int64
	if !t.IsZero() {
		micros = t.UnixMicro()
	}
	return varint.Int64.Size(micros)
}
