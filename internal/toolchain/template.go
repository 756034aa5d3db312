package toolchain

import "fmt"

// buildCompileTemplate constructs the full argv template for one language's
// compile-file command, baking in everything that is constant for this
// toolchain (launcher, debug/optimize flags, host trailer, version flags,
// deps-mode tokens, generic flags) and leaving only <FLAGS>, <IN>, <OUT> to
// be resolved per compile spec.
func buildCompileTemplate(family Family, compiler string, launcher []string, optimize, debug bool, verFlags []string, deps DepsMode, genericFlags []string) ([]string, error) {
	var tokens []string
	tokens = append(tokens, launcher...)
	tokens = append(tokens, compiler)

	switch family {
	case FamilyGNU, FamilyClang:
		if optimize {
			tokens = append(tokens, "-O2")
		}
		if debug {
			tokens = append(tokens, "-g")
		}
		tokens = append(tokens, "-fPIC", "-fdiagnostics-color", "-pthread")
		tokens = append(tokens, "<FLAGS>")
		tokens = append(tokens, verFlags...)
		if deps == DepsGNU {
			tokens = append(tokens, "-MD", "-MF", "<OUT>.d", "-MT", "<OUT>")
		}
		tokens = append(tokens, "-c", "<IN>", "-o<OUT>")
	case FamilyMSVC:
		if debug {
			tokens = append(tokens, "/Z7", "/DEBUG", "/MTd")
		} else if optimize {
			tokens = append(tokens, "/O2")
		}
		tokens = append(tokens, "/EHsc", "/nologo", "/permissive-")
		tokens = append(tokens, "<FLAGS>")
		tokens = append(tokens, verFlags...)
		tokens = append(tokens, "/c", "<IN>", "/Fo<OUT>")
		if deps == DepsMSVC {
			tokens = append(tokens, "/showIncludes")
		}
	default:
		return nil, fmt.Errorf("toolchain: cannot build compile template without a known family")
	}

	tokens = append(tokens, genericFlags...)
	return tokens, nil
}

// buildArchiveTemplate constructs the create-archive argv template.
func buildArchiveTemplate(family Family) []string {
	if family == FamilyMSVC {
		return []string{"lib", "/nologo", "/OUT:<OUT>", "<IN>"}
	}
	return []string{"ar", "rcs", "<OUT>", "<IN>"}
}

// buildLinkTemplate constructs the link-executable argv template.
func buildLinkTemplate(family Family, cxxCompiler string) []string {
	if family == FamilyMSVC {
		return []string{"link.exe", "/nologo", "<IN>", "<FLAGS>", "/OUT:<OUT>"}
	}
	tokens := []string{cxxCompiler, "-fPIC", "-pthread", "-fdiagnostics-color"}
	if family == FamilyGNU {
		tokens = append(tokens, "-lstdc++fs")
	}
	tokens = append(tokens, "<IN>", "<FLAGS>", "-o", "<OUT>")
	return tokens
}
