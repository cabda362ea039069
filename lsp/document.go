// Copyright © 2024 The ELPS authors

package lsp

import (
	"sync"

	"github.com/luthersystems/recscan/ast"
	"github.com/luthersystems/recscan/astutil"
	"github.com/luthersystems/recscan/parser"
)

// Document represents an open text document tracked by the LSP server.
type Document struct {
	mu      sync.Mutex
	URI     string
	Version int32
	Content string
	result  *parser.Result // comments kept, for the linter
	exprs   []*ast.Node    // comments stripped
}

// parse tokenizes the document content and caches the token tree.
// Tokenizing never fails, so the tree always reflects the latest content.
func (d *Document) parse(cfg *parser.Config) {
	c := *cfg
	c.KeepComments = true
	d.result = parser.Parse(uriToPath(d.URI), []byte(d.Content), &c)
	d.exprs = astutil.StripComments(d.result.Exprs)
}

// snapshot returns the cached tree and content under the document lock.
func (d *Document) snapshot() (exprs []*ast.Node, content string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.exprs, d.Content
}

// parsed returns the cached tokenizer result, comments and warnings
// included, under the document lock.
func (d *Document) parsed() *parser.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.result
}

// DocumentStore manages open documents with thread-safe access.
type DocumentStore struct {
	mu   sync.RWMutex
	cfg  *parser.Config
	docs map[string]*Document
}

// NewDocumentStore creates an empty document store which tokenizes
// documents with cfg.  A nil cfg selects parser.DefaultConfig.
func NewDocumentStore(cfg *parser.Config) *DocumentStore {
	if cfg == nil {
		cfg = parser.DefaultConfig()
	}
	return &DocumentStore{cfg: cfg, docs: make(map[string]*Document)}
}

// Open adds a document to the store and parses it.
func (s *DocumentStore) Open(uri string, version int32, content string) *Document {
	doc := &Document{
		URI:     uri,
		Version: version,
		Content: content,
	}
	doc.parse(s.cfg)
	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()
	return doc
}

// Change updates a document's content (full sync) and re-parses it.
func (s *DocumentStore) Change(uri string, version int32, content string) *Document {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		doc = &Document{URI: uri}
		s.docs[uri] = doc
	}
	s.mu.Unlock()

	doc.mu.Lock()
	doc.Version = version
	doc.Content = content
	doc.parse(s.cfg)
	doc.mu.Unlock()
	return doc
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// Get retrieves a document by URI. Returns nil if not found.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}
