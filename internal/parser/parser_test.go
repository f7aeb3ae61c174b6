package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codelensd/engine/internal/parser"
	"github.com/codelensd/engine/pkg/types"
)

func TestParseFileRust(t *testing.T) {
	src := []byte(`
use std::collections::HashMap;

struct UserRepository {
    users: HashMap<u64, String>,
}

fn authenticate_user(token: &str) -> bool {
    token.len() > 0
}
`)

	p := parser.New()
	defer p.Close()

	file, err := p.ParseFile("auth.rs", src)
	require.NoError(t, err)
	assert.Equal(t, "rust", file.Language)
	assert.NotEmpty(t, file.Imports)

	var names []string
	for _, s := range file.Symbols {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "UserRepository")
	assert.Contains(t, names, "authenticate_user")
}

func TestParseFileTypeScript(t *testing.T) {
	src := []byte(`
import { Request } from "express";

export class AuthService {
    login(username: string): boolean {
        return username.length > 0;
    }
}
`)

	p := parser.New()
	defer p.Close()

	file, err := p.ParseFile("auth.ts", src)
	require.NoError(t, err)
	assert.Equal(t, "typescript", file.Language)

	var service *types.Symbol
	for i := range file.Symbols {
		if file.Symbols[i].Name == "AuthService" {
			service = &file.Symbols[i]
		}
	}
	require.NotNil(t, service)
	assert.True(t, service.IsService)
}

func TestParseFilePython(t *testing.T) {
	src := []byte(`
import os

class UserHandler:
    def handle(self, request):
        return True
`)

	p := parser.New()
	defer p.Close()

	file, err := p.ParseFile("handler.py", src)
	require.NoError(t, err)
	assert.Equal(t, "python", file.Language)

	var names []string
	for _, s := range file.Symbols {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "UserHandler")
}

func TestParseFileUnsupportedLanguage(t *testing.T) {
	p := parser.New()
	defer p.Close()

	_, err := p.ParseFile("README.md", []byte("# hello"))
	require.Error(t, err)
	assert.True(t, types.IsCategory(err, types.CategoryInput))
}

func TestParseFileDetectsLanguageFromExtension(t *testing.T) {
	for path, want := range map[string]parser.Language{
		"a.rs":  parser.LangRust,
		"a.js":  parser.LangJavaScript,
		"a.jsx": parser.LangJavaScript,
		"a.ts":  parser.LangTypeScript,
		"a.tsx": parser.LangTypeScript,
		"a.py":  parser.LangPython,
	} {
		assert.Equal(t, want, parser.DetectLanguage(path), path)
	}
}
