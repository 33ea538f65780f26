package model

import (
	"github.com/google/uuid"

	"github.com/wealthpath/loantape/pkg/datetime"
)

// XLSXContentType is the MIME type of generated loan tapes.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Institution identifies one synthetic NBFC inside a profile bucket.
type Institution struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Code  string `json:"code"`
}

// GeneratedFile is a binary payload paired with the name it should be saved under.
type GeneratedFile struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"-"`
}

// Size returns the payload length in bytes.
func (f GeneratedFile) Size() int {
	return len(f.Data)
}

// GeneratedTape is one assembled institution tape together with the records it was
// built from, so exports and analysis do not need to re-synthesize them.
type GeneratedTape struct {
	ProfileKey  string        `json:"profileKey"`
	Institution Institution   `json:"institution"`
	Records     []LoanRecord  `json:"-"`
	File        GeneratedFile `json:"file"`
}

// Batch is the result of one full generation run across every profile.
type Batch struct {
	ID          uuid.UUID                  `json:"id"`
	Seed        int64                      `json:"seed"`
	ProfileKeys []string                   `json:"profileKeys"`
	Tapes       map[string][]GeneratedTape `json:"tapes"`
	GeneratedAt datetime.DateTime          `json:"generatedAt"`
}

// Files returns, per profile key, the ordered files of that bucket.
func (b *Batch) Files() map[string][]GeneratedFile {
	out := make(map[string][]GeneratedFile, len(b.Tapes))
	for key, tapes := range b.Tapes {
		files := make([]GeneratedFile, 0, len(tapes))
		for _, t := range tapes {
			files = append(files, t.File)
		}
		out[key] = files
	}
	return out
}

// FileCount returns the number of files across all profiles.
func (b *Batch) FileCount() int {
	n := 0
	for _, tapes := range b.Tapes {
		n += len(tapes)
	}
	return n
}

// Tape returns the index-th (1-based) tape of a profile.
func (b *Batch) Tape(profileKey string, index int) (GeneratedTape, bool) {
	tapes, ok := b.Tapes[profileKey]
	if !ok || index < 1 || index > len(tapes) {
		return GeneratedTape{}, false
	}
	return tapes[index-1], true
}

// RecordCount returns the number of loan records across all tapes.
func (b *Batch) RecordCount() int {
	n := 0
	for _, tapes := range b.Tapes {
		for _, t := range tapes {
			n += len(t.Records)
		}
	}
	return n
}
