package parser

import (
	"strings"

	"github.com/codelensd/engine/pkg/types"
)

// applyNamingPattern tags a symbol with the naming-convention flags
// exposed through query_index's supplemental naming_patterns filter. This
// is suffix matching, not semantic analysis: it tells a reader what a
// symbol is probably for, nothing more.
func applyNamingPattern(s *types.Symbol) {
	if s.Kind != types.KindClass && s.Kind != types.KindStruct && s.Kind != types.KindInterface {
		return
	}

	switch {
	case hasSuffix(s.Name, "Repository"):
		s.IsRepository = true
	case hasSuffix(s.Name, "Service"):
		s.IsService = true
	case hasSuffix(s.Name, "Handler"):
		s.IsHandler = true
	case hasSuffix(s.Name, "Controller"):
		s.IsController = true
	case hasSuffix(s.Name, "Entity"):
		s.IsEntity = true
	}
}

func hasSuffix(name, suffix string) bool {
	return len(name) > len(suffix) && strings.HasSuffix(name, suffix)
}
