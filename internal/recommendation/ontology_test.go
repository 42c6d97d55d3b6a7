package recommendation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSkill(t *testing.T) {
	assert.Equal(t, "homeservices", NormalizeSkill("Home_Services"))
	assert.Equal(t, "webdevelopment", NormalizeSkill("Web-Development"))
	assert.Equal(t, "webdevelopment", NormalizeSkill(" web development "))
	assert.Equal(t, "", NormalizeSkill(" - _ "))
}

func TestOntology_Related(t *testing.T) {
	o := DefaultOntology()

	tests := []struct {
		a, b string
		want bool
	}{
		{"plumbing", "plumbing", true},
		{"Web-Development", "web development", true},
		{"repair", "car repair", true},
		{"cleaning", "housekeeping", true},
		{"home_services", "laundry", true},
		{"laundry", "home_services", true},
		{"babysitting", "nanny", true},
		{"repairs", "electrical", true},
		{"appliance_repair", "electrical", true},
		{"plumbing", "electrical", false},
		{"plumber", "electrician", false},
		// siblings of different keys stay unrelated
		{"laundry", "plumber", false},
		{"cleaning", "plumbing", false},
		{"home_services", "plumbing", false},
		{"dog walking", "welding", false},
		{"", "plumbing", false},
		{"plumbing", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, o.Related(tt.a, tt.b))
		})
	}
}

func TestOntology_SymmetricAndReflexive(t *testing.T) {
	o := DefaultOntology()

	var vocab []string
	for _, k := range o.Keys() {
		vocab = append(vocab, k)
		terms, ok := o.RelatedTerms(k)
		require.True(t, ok)
		vocab = append(vocab, terms...)
	}
	vocab = append(vocab, "forklift", "Sous Chef", "x")

	for _, a := range vocab {
		assert.True(t, o.Related(a, a), "reflexive: %q", a)
		for _, b := range vocab {
			if o.Related(a, b) != o.Related(b, a) {
				t.Fatalf("asymmetric pair %q / %q", a, b)
			}
		}
	}
}

func TestDefaultOntology_Coverage(t *testing.T) {
	o := DefaultOntology()
	required := []string{
		"home_services", "appliance_repair", "automotive", "business", "childcare",
		"construction", "computer_services", "teaching", "delivery", "electrical",
		"farming", "gardening", "general_labor", "maintenance", "pet_services",
		"repairs", "computer_it", "education_training", "labor", "gardening_farming",
	}
	for _, key := range required {
		terms, ok := o.RelatedTerms(key)
		require.True(t, ok, key)
		assert.GreaterOrEqual(t, len(terms), 4, key)
	}
	assert.IsIncreasing(t, o.Keys())
}

func TestOntology_RelatedTermsReturnsCopy(t *testing.T) {
	table := map[string][]string{"pets": {"dog walking", "cat sitting"}}
	o := NewOntology(table)

	table["pets"][0] = "welding"
	assert.True(t, o.Related("pets", "dog walking"))
	assert.False(t, o.Related("pets", "welding"))

	terms, ok := o.RelatedTerms("pets")
	require.True(t, ok)
	terms[0] = "changed"

	again, _ := o.RelatedTerms("pets")
	assert.Equal(t, "dog walking", again[0])

	_, ok = o.RelatedTerms("missing")
	assert.False(t, ok)
}
