package toolchain

// Toolchain is a realized toolchain: every command template is concrete,
// with no further deduction needed. Immutable once returned by Realize.
type Toolchain struct {
	Family Family

	CCompiler   string
	CXXCompiler string

	CCompileTemplate   []string
	CXXCompileTemplate []string

	IncludeTemplate         []string
	ExternalIncludeTemplate []string
	DefineTemplate          []string

	ArchiveTemplate []string
	LinkTemplate    []string
	LinkFlags       []string

	WarningFlags []string

	ArchivePrefix, ArchiveSuffix       string
	ObjectPrefix, ObjectSuffix         string
	ExecutablePrefix, ExecutableSuffix string

	DepsMode DepsMode
}

// CompileTemplate returns the argv template for lang, which must already be
// resolved (not LangAutomatic).
func (tc *Toolchain) CompileTemplate(lang Language) []string {
	if lang == LangC {
		return tc.CCompileTemplate
	}
	return tc.CXXCompileTemplate
}

// ResolveLanguage resolves LangAutomatic from a source path's extension:
// {.c, .C} choose C, every other extension chooses C++.
func ResolveLanguage(lang Language, sourcePath string) Language {
	if lang != LangAutomatic {
		return lang
	}
	if len(sourcePath) >= 2 {
		ext := sourcePath[len(sourcePath)-2:]
		if ext == ".c" || ext == ".C" {
			return LangC
		}
	}
	return LangCXX
}
