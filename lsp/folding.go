// Copyright © 2024 The ELPS authors

package lsp

import (
	"strings"

	"github.com/luthersystems/recscan/ast"
	"github.com/luthersystems/recscan/astutil"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentFoldingRange handles the textDocument/foldingRange request.
// It returns folding ranges for multi-line groups and consecutive comment
// lines.
func (s *Server) textDocumentFoldingRange(_ *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	exprs, content := doc.snapshot()

	ranges := groupFoldingRanges(exprs)
	ranges = append(ranges, commentFoldingRanges(content)...)
	return ranges, nil
}

// groupFoldingRanges emits a folding range for each group spanning more
// than one line, outermost first.
func groupFoldingRanges(exprs []*ast.Node) []protocol.FoldingRange {
	var ranges []protocol.FoldingRange
	astutil.WalkGroups(exprs, func(g *ast.Node, _ int) {
		if loc := g.Source; loc != nil && loc.Line > 0 && loc.EndLine > loc.Line {
			ranges = append(ranges, foldingRange(loc.Line-1, loc.EndLine-1, protocol.FoldingRangeKindRegion))
		}
	})
	return ranges
}

// newlines maps "\r\n" and a lone "\r" to "\n" so that line numbers agree
// with the tokenizer.
var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// commentFoldingRanges produces a folding range for each block of two or
// more consecutive lines starting with ";".
func commentFoldingRanges(content string) []protocol.FoldingRange {
	lines := strings.Split(newlines.Replace(content), "\n")
	var ranges []protocol.FoldingRange

	blockStart := -1
	flush := func(last int) {
		if blockStart >= 0 && last > blockStart {
			ranges = append(ranges, foldingRange(blockStart, last, protocol.FoldingRangeKindComment))
		}
		blockStart = -1
	}
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), ";") {
			if blockStart < 0 {
				blockStart = i
			}
			continue
		}
		flush(i - 1)
	}
	flush(len(lines) - 1)
	return ranges
}

func foldingRange(start, end int, kind protocol.FoldingRangeKind) protocol.FoldingRange {
	k := string(kind)
	return protocol.FoldingRange{
		StartLine: safeUint(start),
		EndLine:   safeUint(end),
		Kind:      &k,
	}
}
