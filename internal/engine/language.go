package engine

import (
	"github.com/src-d/enry/v2"
)

// grammarByLanguage maps enry language names to tree-sitter grammar names.
// Only languages with a grammar in the forest and rules in the default
// policy are listed; everything else is unsupported.
var grammarByLanguage = map[string]string{
	"Go":         "go",
	"Python":     "python",
	"JavaScript": "javascript",
	"TypeScript": "typescript",
	"Java":       "java",
	"C":          "c",
	"C++":        "cpp",
	"C#":         "c_sharp",
	"Ruby":       "ruby",
	"Rust":       "rust",
}

// detectGrammar returns the tree-sitter grammar name for a document, or an
// empty string when the language is not supported.
func detectGrammar(path string, content []byte) string {
	lang := enry.GetLanguage(path, content)

	return grammarByLanguage[lang]
}
