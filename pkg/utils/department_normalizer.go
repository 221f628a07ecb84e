package utils

import (
	"regexp"
	"strings"
	"unicode"
)

// departmentSynonyms maps known lab-specific department aliases to canonical
// department names. Keys are lowercased with spaces, hyphens, slashes and
// dots removed. The aliases were collected from the raw feeds of the five
// lab chains during ingestion.
var departmentSynonyms = map[string]string{
	"clinicalchemistry":               "Biochemistry",
	"specialchemistry":                "Biochemistry",
	"proteinchemistry":                "Biochemistry",
	"serologyimmunology":              "Serology",
	"immunology":                      "Serology",
	"eiainfectioussection":            "Serology",
	"eiaautoimmunesection":            "Serology",
	"eiainfectious":                   "Serology",
	"eiaautoimmune":                   "Serology",
	"autoimmune":                      "Serology",
	"automuineifa":                    "Serology",
	"nephelometry":                    "Serology",
	"molecularbiology":                "Molecular Biology",
	"genomicsandmoleculardiagnostics": "Molecular Biology",
	"advancedmoleculardiagnosticsr":   "Molecular Biology",
	"coagulation":                     "Haematology",
	"flowcytometry":                   "Haematology",
	"coehistopath":                    "Histopathology",
	"immunohistochemistry":            "Histopathology",
	"hplc":                            "Biochemistry",
	"metals":                          "Biochemistry",
	"torch":                           "Serology",
	"tumormarker":                     "Serology",
	"maternalmarker":                  "Biochemistry",
	"mycology":                        "Microbiology",
	"radiology":                       "Radiology",
}

// departmentNoise holds raw labels that are not departments at all
// (routing, billing and sourcing tags leaking out of the lab feeds).
var departmentNoise = map[string]struct{}{
	"localsendout":              {},
	"internationalsendout":      {},
	"outsource":                 {},
	"marketing":                 {},
	"corporate":                 {},
	"package":                   {},
	"other":                     {},
	"superreligarelaboratoriesltd": {},
	"homecollection":            {},
}

var (
	trailingDotsRe = regexp.MustCompile(`\.+$`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// DepartmentNormalizer maps freeform department labels from the lab feeds
// onto the canonical department taxonomy. It is pure and deterministic for a
// given canonical-name snapshot; construct one per aggregation pass so a
// single pass always sees one consistent taxonomy.
type DepartmentNormalizer struct {
	canonical []string
}

// NewDepartmentNormalizer creates a normalizer over a snapshot of canonical
// department names.
func NewDepartmentNormalizer(canonicalNames []string) *DepartmentNormalizer {
	names := make([]string, len(canonicalNames))
	copy(names, canonicalNames)
	return &DepartmentNormalizer{canonical: names}
}

// Normalize maps a raw department label to a canonical name. The boolean is
// false when the label is empty or noise and the row should be discarded.
//
// Matching order, first match wins: exact (case- and space-insensitive),
// substring either way, synonym table, noise filter, then a best-effort
// fallback that may introduce names outside the official taxonomy.
func (n *DepartmentNormalizer) Normalize(raw string) (string, bool) {
	cleaned := strings.TrimSpace(raw)
	cleaned = trailingDotsRe.ReplaceAllString(cleaned, "")
	cleaned = whitespaceRe.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return "", false
	}

	compact := squash(cleaned, " ")

	for _, cd := range n.canonical {
		if squash(cd, " ") == compact {
			return cd, true
		}
	}

	for _, cd := range n.canonical {
		cdCompact := squash(cd, " ")
		if strings.Contains(compact, cdCompact) || strings.Contains(cdCompact, compact) {
			return cd, true
		}
	}

	key := squash(cleaned, " -/.")
	if mapped, ok := departmentSynonyms[key]; ok {
		return mapped, true
	}

	if _, ok := departmentNoise[key]; ok {
		return "", false
	}

	// Fallback: keep the label, first rune upper-cased and the rest lowered.
	// This can surface near-duplicate departments not in the taxonomy.
	return sentenceCase(cleaned), true
}

// squash lowercases s and removes every rune in cutset.
func squash(s, cutset string) string {
	lower := strings.ToLower(s)
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(cutset, r) {
			return -1
		}
		return r
	}, lower)
}

func sentenceCase(s string) string {
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
