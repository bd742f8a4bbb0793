package reader

import (
	"strings"
)

// Variant is one candidate (alias, file name) pair tried when
// resolving a logical name to a file.
type Variant struct {
	Alias    string
	FileName string
}

// VariantPolicy generates candidates for names that are not found in
// a source's index.
type VariantPolicy interface {
	Variants(name string) []Variant
}

type VariantFunc func(name string) []Variant

func (f VariantFunc) Variants(name string) []Variant {
	return f(name)
}

var DefaultExtensions = []string{"", ".txt", ".mib", ".my"}

var (
	// Tries the name itself, then case and hyphen/underscore
	// spellings, each with the default extensions.
	DefaultVariants VariantPolicy = ExtensionVariants(DefaultExtensions...)

	// Only tries a file named exactly like the module.
	IdentityVariants VariantPolicy = VariantFunc(func(name string) []Variant {
		return []Variant{{Alias: name, FileName: name}}
	})
)

// Build a policy that tries every spelling of a name with each of
// the given extensions, spellings first. The alias is always the
// requested name.
func ExtensionVariants(extensions ...string) VariantPolicy {
	if len(extensions) == 0 {
		extensions = []string{""}
	}

	return VariantFunc(func(name string) []Variant {
		spellings := uniqueStrings([]string{
			name,
			strings.ToUpper(name),
			strings.ToLower(name),
			strings.ReplaceAll(name, "-", "_"),
		})

		variants := make([]Variant, 0, len(spellings)*len(extensions))
		seen := make(map[string]struct{}, cap(variants))

		for _, spelling := range spellings {
			for _, ext := range extensions {
				fileName := spelling + ext
				if _, ok := seen[fileName]; ok {
					continue
				}
				seen[fileName] = struct{}{}
				variants = append(variants, Variant{Alias: name, FileName: fileName})
			}
		}

		return variants
	})
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
