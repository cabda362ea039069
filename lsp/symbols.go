// Copyright © 2024 The ELPS authors

package lsp

import (
	"github.com/luthersystems/recscan/analysis"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const recursiveDetail = "recursive"

// textDocumentDocumentSymbol handles the textDocument/documentSymbol request.
// Definitions are returned as a hierarchy; nested defines are children of
// the definition enclosing them.
func (s *Server) textDocumentDocumentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	exprs, _ := doc.snapshot()

	symbols := []protocol.DocumentSymbol{}
	for _, def := range analysis.Collect(exprs, s.analysisCfg) {
		if def.Parent != nil {
			continue
		}
		symbols = append(symbols, definitionSymbol(def))
	}
	return symbols, nil
}

func definitionSymbol(def *analysis.Definition) protocol.DocumentSymbol {
	sel := toLSPRange(def.NameNode.Source, len(def.Name()))
	r := sel
	if def.Node.Source != nil {
		r = toLSPRange(def.Node.Source, 1)
	}
	sym := protocol.DocumentSymbol{
		Name:           def.Name(),
		Kind:           protocol.SymbolKindFunction,
		Range:          r,
		SelectionRange: sel,
	}
	if def.SelfRecursive() {
		sym.Detail = strPtr(recursiveDetail)
	}
	for _, child := range def.Children {
		sym.Children = append(sym.Children, definitionSymbol(child))
	}
	return sym
}
