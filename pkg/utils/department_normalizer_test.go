package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testTaxonomy = []string{"Biochemistry", "Haematology", "Serology"}

func TestNormalize_ExactMatchIgnoresCaseAndSpacing(t *testing.T) {
	n := NewDepartmentNormalizer(testTaxonomy)

	dept, ok := n.Normalize("HAEMATOLOGY")
	assert.True(t, ok)
	assert.Equal(t, "Haematology", dept)

	dept, ok = n.Normalize("Bio chemistry")
	assert.True(t, ok)
	assert.Equal(t, "Biochemistry", dept)

	dept, ok = n.Normalize("Biochemistry.")
	assert.True(t, ok)
	assert.Equal(t, "Biochemistry", dept)
}

func TestNormalize_SynonymTable(t *testing.T) {
	n := NewDepartmentNormalizer(testTaxonomy)

	dept, ok := n.Normalize("Clinical Chemistry")
	assert.True(t, ok)
	assert.Equal(t, "Biochemistry", dept)

	dept, ok = n.Normalize("Coagulation")
	assert.True(t, ok)
	assert.Equal(t, "Haematology", dept)

	dept, ok = n.Normalize("EIA - Infectious Section")
	assert.True(t, ok)
	assert.Equal(t, "Serology", dept)
}

func TestNormalize_NoiseIsDiscarded(t *testing.T) {
	n := NewDepartmentNormalizer(testTaxonomy)

	for _, raw := range []string{"Outsource", "Home Collection", "MARKETING", "Local Send-Out", "Package"} {
		_, ok := n.Normalize(raw)
		assert.False(t, ok, "expected %q to be discarded as noise", raw)
	}
}

func TestNormalize_EmptyInput(t *testing.T) {
	n := NewDepartmentNormalizer(testTaxonomy)

	_, ok := n.Normalize("")
	assert.False(t, ok)

	_, ok = n.Normalize("   ")
	assert.False(t, ok)

	_, ok = n.Normalize("...")
	assert.False(t, ok)
}

func TestNormalize_FallbackSentenceCases(t *testing.T) {
	n := NewDepartmentNormalizer(testTaxonomy)

	dept, ok := n.Normalize("WELLNESS  PANEL")
	assert.True(t, ok)
	assert.Equal(t, "Wellness panel", dept)
}

// Canonical names are fixed points: running an output back through the
// normalizer returns it unchanged.
func TestNormalize_Idempotent(t *testing.T) {
	n := NewDepartmentNormalizer(testTaxonomy)

	inputs := []string{
		"HAEMATOLOGY", "Bio chemistry", "Clinical Chemistry",
		"Flow Cytometry", "Tumor Marker", "WELLNESS PANEL",
	}
	for _, raw := range inputs {
		first, ok := n.Normalize(raw)
		if !ok {
			continue
		}
		second, ok := n.Normalize(first)
		assert.True(t, ok)
		assert.Equal(t, first, second, "normalize(%q) is not a fixed point", raw)
	}
}

func TestNormalize_SubstringEitherDirection(t *testing.T) {
	n := NewDepartmentNormalizer([]string{"Molecular Biology", "Serology"})

	// Raw contains canonical
	dept, ok := n.Normalize("Dept of Molecular Biology")
	assert.True(t, ok)
	assert.Equal(t, "Molecular Biology", dept)

	// Canonical contains raw
	dept, ok = n.Normalize("serolog")
	assert.True(t, ok)
	assert.Equal(t, "Serology", dept)
}
