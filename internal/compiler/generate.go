package compiler

import (
	"fmt"
	"go/format"
	"strconv"
	"strings"
	"unicode"

	"github.com/snmp-tools/mibfs/internal/artifact"
)

// Generator turns module source text into artifact text.
type Generator interface {
	Generate(info artifact.Info, source string) (string, error)
}

type GeneratorFunc func(info artifact.Info, source string) (string, error)

func (f GeneratorFunc) Generate(info artifact.Info, source string) (string, error) {
	return f(info, source)
}

const DefaultPackage = "mibs"

// GoSourceGenerator emits a Go file that embeds the module source as a
// string constant named after the module.
type GoSourceGenerator struct {
	Package string
}

func (g GoSourceGenerator) Generate(info artifact.Info, source string) (string, error) {
	pkg := g.Package
	if pkg == "" {
		pkg = DefaultPackage
	}

	ident := Identifier(info.Name)
	if ident == "" {
		return "", fmt.Errorf("cannot derive an identifier from module name '%s'", info.Name)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "package %s\n\n", pkg)
	fmt.Fprintf(&b, "// %sOrigin is the location %s was compiled from.\n", ident, info.Name)
	fmt.Fprintf(&b, "const %sOrigin = %s\n\n", ident, strconv.Quote(info.Origin))
	fmt.Fprintf(&b, "// %s is the source text of %s.\n", ident, info.Name)
	fmt.Fprintf(&b, "const %s = %s\n", ident, strconv.Quote(source))

	formatted, err := format.Source([]byte(b.String()))
	if err != nil {
		return "", fmt.Errorf("failed to format generated code for %s: %w", info.Name, err)
	}

	return string(formatted), nil
}

// Identifier converts a module name such as SNMPv2-SMI into an
// exported Go identifier (SNMPv2_SMI).
func Identifier(name string) string {
	var b strings.Builder

	for _, r := range name {
		switch {
		case r < unicode.MaxASCII && (r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	ident := strings.Trim(b.String(), "_")
	if ident == "" {
		return ""
	}

	first := rune(ident[0])
	if !unicode.IsUpper(first) {
		if unicode.IsLower(first) {
			ident = string(unicode.ToUpper(first)) + ident[1:]
		} else {
			ident = "M" + ident
		}
	}

	return ident
}
