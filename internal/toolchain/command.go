package toolchain

import (
	"fmt"
	"strings"
)

// CompileSpec is the input to compile-one-file command construction.
type CompileSpec struct {
	Source              string
	Output              string
	Language            Language
	IncludeDirs         []string
	ExternalIncludeDirs []string
	Defines             []string
	Warnings            bool
}

// ArchiveSpec is the input to create-archive command construction.
type ArchiveSpec struct {
	Output string
	Inputs []string
}

// LinkSpec is the input to link-executable command construction.
type LinkSpec struct {
	Output         string
	Inputs         []string
	AdditionalLibs []string
}

// CompileResult is the argv vector for a compile command plus, when the
// toolchain's deps mode is GNU-style, the path to the dependency file the
// compiler will emit.
type CompileResult struct {
	Argv        []string
	DepfilePath string
}

// expandPathTemplate expands a short template (Include/External-Include/
// Define) whose single placeholder (<PATH> or <DEF>) is matched as a whole
// token, substituting value for every occurrence.
func expandPathTemplate(tmpl []string, placeholder, value string) []string {
	out := make([]string, 0, len(tmpl))
	for _, tok := range tmpl {
		if tok == placeholder {
			out = append(out, value)
		} else {
			out = append(out, tok)
		}
	}
	return out
}

func substituteInOut(token, in, out string) string {
	token = strings.ReplaceAll(token, "<IN>", in)
	token = strings.ReplaceAll(token, "<OUT>", out)
	return token
}

// BuildCompileCommand constructs the argv vector for spec under tc,
// resolving `automatic` to C or C++ by extension, splicing computed flags
// at <FLAGS>, and substring-substituting <IN>/<OUT> everywhere else.
func BuildCompileCommand(tc *Toolchain, spec CompileSpec) (CompileResult, error) {
	lang := ResolveLanguage(spec.Language, spec.Source)
	tmpl := tc.CompileTemplate(lang)
	if len(tmpl) == 0 {
		return CompileResult{}, fmt.Errorf("toolchain: no compile template for resolved language")
	}

	var flags []string
	for _, dir := range spec.IncludeDirs {
		flags = append(flags, expandPathTemplate(tc.IncludeTemplate, "<PATH>", dir)...)
	}
	for _, dir := range spec.ExternalIncludeDirs {
		flags = append(flags, expandPathTemplate(tc.ExternalIncludeTemplate, "<PATH>", dir)...)
	}
	for _, def := range spec.Defines {
		flags = append(flags, expandPathTemplate(tc.DefineTemplate, "<DEF>", def)...)
	}
	if spec.Warnings {
		flags = append(flags, tc.WarningFlags...)
	}

	argv, err := renderTemplate(tmpl, flags, spec.Source, spec.Output)
	if err != nil {
		return CompileResult{}, err
	}

	result := CompileResult{Argv: argv}
	if tc.DepsMode == DepsGNU {
		result.DepfilePath = spec.Output + ".d"
	}
	return result, nil
}

// BuildArchiveCommand constructs the argv vector for creating an archive.
func BuildArchiveCommand(tc *Toolchain, spec ArchiveSpec) ([]string, error) {
	return renderListTemplate(tc.ArchiveTemplate, nil, spec.Inputs, spec.Output)
}

// BuildLinkCommand constructs the argv vector for linking an executable.
func BuildLinkCommand(tc *Toolchain, spec LinkSpec) ([]string, error) {
	flags := append([]string(nil), tc.LinkFlags...)
	flags = append(flags, libArgs(tc.Family, spec.AdditionalLibs)...)
	return renderListTemplate(tc.LinkTemplate, flags, spec.Inputs, spec.Output)
}

func libArgs(family Family, libs []string) []string {
	var out []string
	for _, lib := range libs {
		if family == FamilyMSVC {
			out = append(out, lib+".lib")
		} else {
			out = append(out, "-l"+lib)
		}
	}
	return out
}

// renderTemplate walks tmpl for a single-input command (compile): <FLAGS>
// is matched as a standalone token and spliced; every other token has <IN>
// and <OUT> substring-substituted.
func renderTemplate(tmpl []string, flags []string, in, out string) ([]string, error) {
	var argv []string
	for _, tok := range tmpl {
		if tok == "<FLAGS>" {
			argv = append(argv, flags...)
			continue
		}
		argv = append(argv, substituteInOut(tok, in, out))
	}
	return argv, nil
}

// renderListTemplate walks tmpl for a multi-input command (archive/link): a
// standalone <IN> token expands into the entire input list (one token per
// input); <FLAGS> is spliced; every other token has <OUT> substring
// substituted. An <IN> embedded inside a larger token is not substituted
// and is passed through unchanged.
func renderListTemplate(tmpl []string, flags []string, inputs []string, out string) ([]string, error) {
	var argv []string
	for _, tok := range tmpl {
		switch tok {
		case "<FLAGS>":
			argv = append(argv, flags...)
		case "<IN>":
			argv = append(argv, inputs...)
		default:
			rendered := strings.ReplaceAll(tok, "<OUT>", out)
			argv = append(argv, rendered)
		}
	}
	return argv, nil
}
