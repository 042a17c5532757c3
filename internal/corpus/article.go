// Package corpus stores manuscript articles in SQLite and serves them
// as candidate sources for originality analysis.
package corpus

import (
	"encoding/hex"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Article is one stored manuscript. Fingerprint is a content hash
// used as a stable candidate identity and to detect changed content
// when an article is re-added.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Abstract    string    `json:"abstract"`
	Content     string    `json:"content"`
	Fingerprint string    `json:"fingerprint"`
	AddedAt     time.Time `json:"added_at"`
}

// Text returns the article's comparable text block.
func (a Article) Text() string {
	return a.Title + " " + a.Abstract + " " + a.Content
}

// Fingerprint computes the blake2b-256 hex digest of the article's
// textual content.
func Fingerprint(title, abstract, content string) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(title))
	h.Write([]byte{0})
	h.Write([]byte(abstract))
	h.Write([]byte{0})
	h.Write([]byte(content))
	return hex.EncodeToString(h.Sum(nil))
}
