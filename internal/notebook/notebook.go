// Package notebook holds a single note's Markdown text and its rendered
// preview. The preview is derived: it is recomputed from the current
// content on read and never stored independently.
package notebook

import (
	"encoding/hex"
	"sync"

	"github.com/rs/zerolog"
	"github.com/zeebo/blake3"

	"github.com/mithrel/notebook/internal/render"
)

// DefaultContent is the note text a fresh Notebook starts with.
const DefaultContent = "This is a note."

// Change describes a write to the note.
type Change struct {
	Revision uint64
	Content  string
}

// Snapshot is a consistent view of the note at one revision.
type Snapshot struct {
	Content     string `json:"content"`
	Preview     string `json:"preview"`
	Revision    uint64 `json:"revision"`
	Fingerprint string `json:"fingerprint"`
}

type subscriber struct {
	id uint64
	fn func(Change)
}

// Notebook owns the note content. Every SetContent advances the revision,
// invalidates the preview and notifies subscribers.
type Notebook struct {
	mu      sync.RWMutex
	content string
	rev     uint64
	subs    []subscriber
	nextSub uint64

	preview *Computed[string, string]
	log     zerolog.Logger
}

// Option configures a Notebook.
type Option func(*Notebook)

// WithContent overrides DefaultContent as the initial note text.
func WithContent(s string) Option {
	return func(n *Notebook) { n.content = s }
}

// WithLogger attaches a logger; writes are logged at debug level.
func WithLogger(l zerolog.Logger) Option {
	return func(n *Notebook) { n.log = l }
}

// New creates a Notebook whose preview is produced by conv.
func New(conv render.Converter, opts ...Option) *Notebook {
	n := &Notebook{
		content: DefaultContent,
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(n)
	}
	n.preview = NewComputed[string, string](n, conv.Convert)
	return n
}

// Value implements Source so other derivations can track the note.
func (n *Notebook) Value() (string, uint64) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.content, n.rev
}

func (n *Notebook) Content() string {
	s, _ := n.Value()
	return s
}

func (n *Notebook) Revision() uint64 {
	_, rev := n.Value()
	return rev
}

// SetContent replaces the note text. Any string is accepted. Subscribers
// run synchronously on the caller's goroutine, in registration order.
func (n *Notebook) SetContent(s string) {
	n.mu.Lock()
	n.content = s
	n.rev++
	rev := n.rev
	subs := make([]subscriber, len(n.subs))
	copy(subs, n.subs)
	n.mu.Unlock()

	n.log.Debug().Uint64("rev", rev).Int("bytes", len(s)).Msg("note updated")

	ch := Change{Revision: rev, Content: s}
	for _, sub := range subs {
		sub.fn(ch)
	}
}

// Subscribe registers fn to be called after every write. The returned
// cancel func is safe to call more than once.
func (n *Notebook) Subscribe(fn func(Change)) (cancel func()) {
	n.mu.Lock()
	n.nextSub++
	id := n.nextSub
	n.subs = append(n.subs, subscriber{id: id, fn: fn})
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			for i, s := range n.subs {
				if s.id == id {
					n.subs = append(n.subs[:i:i], n.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Preview renders the current content. Converter errors are returned
// unchanged and the next call retries.
func (n *Notebook) Preview() (string, error) {
	return n.preview.Get()
}

// MustPreview is Preview for converters that cannot fail.
func (n *Notebook) MustPreview() string {
	out, err := n.Preview()
	if err != nil {
		panic(err)
	}
	return out
}

// Snapshot returns content, preview and revision read together.
func (n *Notebook) Snapshot() (Snapshot, error) {
	html, content, rev, err := n.preview.get()
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Content:     content,
		Preview:     html,
		Revision:    rev,
		Fingerprint: Fingerprint(content),
	}, nil
}

// Fingerprint is the hex BLAKE3 digest of s.
func Fingerprint(s string) string {
	sum := blake3.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
