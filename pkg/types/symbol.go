package types

import "errors"

// SymbolKind represents the declaration kind of a code symbol, independent
// of source language.
type SymbolKind string

const (
	KindFunction  SymbolKind = "function"
	KindMethod    SymbolKind = "method"
	KindClass     SymbolKind = "class"
	KindStruct    SymbolKind = "struct"
	KindInterface SymbolKind = "interface"
	KindEnum      SymbolKind = "enum"
	KindConstant  SymbolKind = "constant"
	KindVariable  SymbolKind = "variable"
	KindImport    SymbolKind = "import"
	KindExport    SymbolKind = "export"
)

// Symbol represents a declared symbol extracted from a source file by the
// tree-sitter-backed parser.
type Symbol struct {
	// Identification
	Name     string
	Kind     SymbolKind
	FilePath string
	Language string
	Parent   string // enclosing symbol name; the parser does not set it, so it is always empty

	// Content
	Signature  string
	DocComment string

	// Location, 1-based inclusive line numbers
	StartLine int
	EndLine   int

	// Naming-pattern tags (suffix-based, supplemental to spec.md)
	IsRepository bool
	IsService    bool
	IsHandler    bool
	IsController bool
	IsEntity     bool
}

// ValidateKind checks if the symbol kind is one of the recognized kinds.
func (s *Symbol) ValidateKind() error {
	switch s.Kind {
	case KindFunction, KindMethod, KindClass, KindStruct, KindInterface,
		KindEnum, KindConstant, KindVariable, KindImport, KindExport:
		return nil
	default:
		return errors.New("invalid symbol kind")
	}
}

// Validate performs comprehensive validation of the symbol.
func (s *Symbol) Validate() error {
	if s.Name == "" {
		return errors.New("symbol name is required")
	}

	if err := s.ValidateKind(); err != nil {
		return err
	}

	if s.FilePath == "" {
		return errors.New("file path is required")
	}

	if s.StartLine <= 0 || s.EndLine <= 0 {
		return errors.New("invalid position: line numbers must be positive")
	}

	if s.StartLine > s.EndLine {
		return errors.New("invalid position: start line must be before or equal to end line")
	}

	return nil
}

// HasNamingPattern returns true if this symbol matches any tracked naming
// convention.
func (s *Symbol) HasNamingPattern() bool {
	return s.IsRepository || s.IsService || s.IsHandler || s.IsController || s.IsEntity
}
