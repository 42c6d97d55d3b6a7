// internal/recommendation/ontology.go
package recommendation

import (
	"sort"
	"strings"
	"sync"
)

// defaultSkillTable maps a canonical key to its synonyms. Aggregate keys
// (repairs, computer_it, education_training, labor, gardening_farming) list
// other keys so one lookup covers a whole family. No list may contain two
// trades that must stay distinct, such as plumbing and electrical.
var defaultSkillTable = map[string][]string{
	"home_services": {
		"cleaning", "housekeeping", "house cleaning", "deep cleaning", "laundry",
		"ironing", "cooking", "maid", "home organization",
	},
	"plumbing": {
		"plumber", "pipe fitting", "pipe repair", "drainage", "leak repair", "water heater",
	},
	"appliance_repair": {
		"appliance repair", "refrigerator repair", "washing machine repair",
		"ac repair", "air conditioning", "hvac", "microwave repair", "electronics repair",
	},
	"automotive": {
		"mechanic", "car repair", "auto repair", "vehicle maintenance", "car wash",
		"tire service", "oil change", "auto detailing",
	},
	"business": {
		"accounting", "bookkeeping", "marketing", "sales", "customer service",
		"administration", "data entry", "office management",
	},
	"childcare": {
		"babysitting", "nanny", "child care", "daycare", "au pair", "child minding",
	},
	"construction": {
		"masonry", "carpentry", "bricklaying", "roofing", "welding", "tiling",
		"concrete", "painting", "scaffolding",
	},
	"computer_services": {
		"programming", "web development", "software development", "it support",
		"computer repair", "networking", "graphic design", "data analysis", "tech support",
	},
	"teaching": {
		"tutoring", "teacher", "instruction", "lecturing", "mentoring", "coaching",
		"lesson planning",
	},
	"delivery": {
		"courier", "driver", "delivery driver", "logistics", "package delivery",
		"dispatch", "errands", "motorbike delivery",
	},
	"electrical": {
		"electrician", "wiring", "rewiring", "electrical installation",
		"solar installation", "lighting", "circuit repair",
	},
	"farming": {
		"agriculture", "crop farming", "livestock", "poultry", "dairy farming",
		"harvesting", "irrigation", "animal husbandry",
	},
	"gardening": {
		"landscaping", "lawn care", "gardener", "pruning", "planting", "weeding",
		"horticulture", "yard work",
	},
	"general_labor": {
		"laborer", "manual labor", "moving", "lifting", "loading", "packing",
		"warehouse work", "casual work",
	},
	"maintenance": {
		"handyman", "building maintenance", "facility maintenance", "upkeep",
		"janitorial", "fixing", "painting",
	},
	"pet_services": {
		"pet sitting", "dog walking", "pet grooming", "animal care", "pet training",
		"kennel", "veterinary assistant",
	},

	"repairs": {
		"appliance_repair", "maintenance", "electrical", "automotive", "handyman",
		"repair technician", "fixing",
	},
	"computer_it": {
		"computer_services", "programming", "it support", "software", "networking",
		"web development", "computer repair",
	},
	"education_training": {
		"teaching", "tutoring", "training", "coaching", "mentoring", "instruction", "education",
	},
	"labor": {
		"general_labor", "construction", "delivery", "moving", "warehouse work", "manual labor",
	},
	"gardening_farming": {
		"gardening", "farming", "landscaping", "agriculture", "horticulture", "lawn care",
	},
}

type ontologyEntry struct {
	key     string
	base    string
	terms   []string
	related map[string]struct{}
}

// Ontology is an immutable skill relatedness table. It is safe for
// concurrent use.
type Ontology struct {
	entries []ontologyEntry
	byKey   map[string]int
}

// NewOntology copies table into a lookup structure. Later changes to table
// do not affect the returned Ontology.
func NewOntology(table map[string][]string) *Ontology {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	o := &Ontology{
		entries: make([]ontologyEntry, 0, len(keys)),
		byKey:   make(map[string]int, len(keys)),
	}
	for _, k := range keys {
		entry := ontologyEntry{
			key:     k,
			base:    NormalizeSkill(k),
			terms:   append([]string(nil), table[k]...),
			related: make(map[string]struct{}, len(table[k])),
		}
		for _, term := range table[k] {
			if n := NormalizeSkill(term); n != "" {
				entry.related[n] = struct{}{}
			}
		}
		o.byKey[k] = len(o.entries)
		o.entries = append(o.entries, entry)
	}
	return o
}

var (
	defaultOntologyOnce sync.Once
	defaultOntology     *Ontology
)

// DefaultOntology returns the built-in table, built on first use.
func DefaultOntology() *Ontology {
	defaultOntologyOnce.Do(func() {
		defaultOntology = NewOntology(defaultSkillTable)
	})
	return defaultOntology
}

// NormalizeSkill is the comparison form of a skill: lowercase with
// underscores, hyphens and whitespace removed.
func NormalizeSkill(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch r {
		case '_', '-', ' ', '\t', '\n', '\r':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Related reports whether two skills match exactly, contain one another, or
// share an ontology entry. The test is symmetric and single hop. Empty skills
// are never related.
func (o *Ontology) Related(a, b string) bool {
	na, nb := NormalizeSkill(a), NormalizeSkill(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb || strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}

	for i := range o.entries {
		e := &o.entries[i]
		_, aRel := e.related[na]
		_, bRel := e.related[nb]
		switch {
		case aRel && bRel:
			return true
		case na == e.base && bRel:
			return true
		case nb == e.base && aRel:
			return true
		}
	}
	return false
}

// Keys returns the canonical keys in sorted order.
func (o *Ontology) Keys() []string {
	keys := make([]string, len(o.entries))
	for i, e := range o.entries {
		keys[i] = e.key
	}
	return keys
}

// RelatedTerms returns a copy of the synonyms listed under key.
func (o *Ontology) RelatedTerms(key string) ([]string, bool) {
	i, ok := o.byKey[key]
	if !ok {
		return nil, false
	}
	return append([]string(nil), o.entries[i].terms...), true
}
