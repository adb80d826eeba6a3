package orchestrator

import "strings"

// Heuristic vocabularies for task detection and code-model matching.
// Both are approximate by nature and kept as swappable package data.

// codeKeywords are lowercase substrings that signal a coding request.
var codeKeywords = []string{
	// Generic programming terms
	"function", "class", "method", "variable", "loop", "algorithm",
	"compile", "syntax", "runtime", "debug", "refactor", "optimize",
	"def ", "import ", "return ", "if ", "else ", "for ", "while ",
	"error", "exception", "traceback", "stack trace", "null pointer",
	// Languages / ecosystems
	"python", "javascript", "typescript", "java", "kotlin", "swift",
	"rust", "golang", "go ", "c++", "c#", "php", "ruby", "bash", "sql",
	"html", "css", "json", "yaml", "xml",
	// Spanish
	"función", "clase", "código", "programa", "depurar", "depuración", "excepción",
	// German
	"funktion", "klasse", "fehler", "programm",
	// French
	"fonction", "classe", "erreur", "programme",
	// Italian
	"funzione", "codice", "programma",
}

// codeModelPatterns are name fragments that identify a model as
// code-specialised.
var codeModelPatterns = []string{
	"code", "coder", "codegen", "codellama", "starcoder",
	"deepseek-coder", "qwen-coder", "wizard-coder", "phind",
	"magicoder", "codegemma", "codestral", "devstral",
}

func isCodePrompt(prompt string) bool {
	text := strings.ToLower(prompt)
	for _, kw := range codeKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func isCodeModel(name string) bool {
	lower := strings.ToLower(name)
	for _, p := range codeModelPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
