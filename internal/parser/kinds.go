package parser

import "github.com/codelensd/engine/pkg/types"

// nodeKinds maps a tree-sitter node kind to the SymbolKind it represents,
// per language. Node kinds not present in a language's table are skipped
// during extraction (they are structural nodes, not declarations).
var nodeKinds = map[Language]map[string]types.SymbolKind{
	LangRust: {
		"function_item": types.KindFunction,
		"struct_item":   types.KindStruct,
		"enum_item":     types.KindEnum,
		"impl_item":     types.KindInterface,
	},
	LangJavaScript: {
		"function_declaration": types.KindFunction,
		"class_declaration":    types.KindClass,
		"method_definition":    types.KindMethod,
	},
	LangTypeScript: {
		"function_declaration": types.KindFunction,
		"class_declaration":    types.KindClass,
		"method_definition":    types.KindMethod,
	},
	LangPython: {
		"function_definition": types.KindFunction,
		"class_definition":    types.KindClass,
	},
}

// importKinds lists the node kinds that represent an import/use
// declaration or, for JS/TS, an export statement, per language. Their full
// source text (not a parsed name) is recorded on IndexedFile.Imports, or on
// IndexedFile.Exports for export statements, matching the spec's "raw import text,
// no resolution" scope.
var importKinds = map[Language]map[string]bool{
	LangRust: {
		"use_declaration": true,
	},
	LangJavaScript: {
		"import_statement": true,
		"export_statement": true,
	},
	LangTypeScript: {
		"import_statement": true,
		"export_statement": true,
	},
	LangPython: {
		"import_statement":      true,
		"import_from_statement": true,
	},
}
