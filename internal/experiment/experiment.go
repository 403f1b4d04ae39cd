// Package experiment assigns visitors to weighted variants of landing-page
// experiments. Assignment is a pure function of the visitor id and the
// experiment name, cached through an injected Store.
package experiment

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"

	"github.com/lshigami/Bilim/internal/apperror"
)

// Buckets is the size of the hash space weights are laid over.
const Buckets = 100

// DefaultTable is the landing experiment used when none is configured.
const DefaultTable = "landing=control:33,B:33,C:34"

// Variant is one arm of an experiment with its share of the 100 buckets.
type Variant struct {
	Name   string `json:"name"`
	Weight int    `json:"weight"`
}

// Experiment is an ordered list of variants. Order matters: buckets are
// assigned by walking the cumulative weights front to back.
type Experiment struct {
	Name     string    `json:"name"`
	Variants []Variant `json:"variants"`
}

// Validate checks that the weights are non-negative and cover exactly the
// bucket space.
func (e Experiment) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return apperror.Validation("experiment", "name is required")
	}
	if len(e.Variants) == 0 {
		return apperror.Validation("experiment", "%s has no variants", e.Name)
	}
	sum := 0
	seen := make(map[string]bool, len(e.Variants))
	for _, v := range e.Variants {
		if v.Name == "" {
			return apperror.Validation("experiment", "%s has an unnamed variant", e.Name)
		}
		if seen[v.Name] {
			return apperror.Validation("experiment", "%s declares variant %s twice", e.Name, v.Name)
		}
		seen[v.Name] = true
		if v.Weight < 0 {
			return apperror.Validation("experiment", "%s: variant %s has negative weight %d", e.Name, v.Name, v.Weight)
		}
		sum += v.Weight
	}
	if sum != Buckets {
		return apperror.Validation("experiment", "%s: weights sum to %d, want %d", e.Name, sum, Buckets)
	}
	return nil
}

// Pick returns the variant owning bucket.
func (e Experiment) Pick(bucket int) string {
	upper := 0
	for _, v := range e.Variants {
		upper += v.Weight
		if bucket < upper {
			return v.Name
		}
	}
	// Unreachable for a validated experiment.
	return e.Variants[len(e.Variants)-1].Name
}

// HasVariant reports whether name is one of the experiment's variants.
func (e Experiment) HasVariant(name string) bool {
	for _, v := range e.Variants {
		if v.Name == name {
			return true
		}
	}
	return false
}

// Hash is the 32-bit FNV-1a hash of visitorID followed by experiment.
func Hash(visitorID, experiment string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(visitorID))
	h.Write([]byte(experiment))
	return h.Sum32()
}

// Bucket maps a visitor into [0, Buckets).
func Bucket(visitorID, experiment string) int {
	return int(Hash(visitorID, experiment) % Buckets)
}

// ParseTable reads experiments in the form
//
//	landing=control:33,B:33,C:34;pricing=a:50,b:50
//
// and validates each one.
func ParseTable(raw string) ([]Experiment, error) {
	var out []Experiment
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, arms, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, apperror.Validation("experiments", "entry %q is missing '='", entry)
		}
		exp := Experiment{Name: strings.TrimSpace(name)}
		for _, arm := range strings.Split(arms, ",") {
			variant, weight, ok := strings.Cut(strings.TrimSpace(arm), ":")
			if !ok {
				return nil, apperror.Validation("experiments", "variant %q in %s is missing a weight", arm, exp.Name)
			}
			w, err := strconv.Atoi(strings.TrimSpace(weight))
			if err != nil {
				return nil, apperror.Validation("experiments", "weight %q in %s is not an integer", weight, exp.Name)
			}
			exp.Variants = append(exp.Variants, Variant{Name: strings.TrimSpace(variant), Weight: w})
		}
		if err := exp.Validate(); err != nil {
			return nil, err
		}
		out = append(out, exp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	for i := 1; i < len(out); i++ {
		if out[i].Name == out[i-1].Name {
			return nil, apperror.Validation("experiments", "experiment %s declared twice", out[i].Name)
		}
	}
	return out, nil
}

func (e Experiment) String() string {
	parts := make([]string, len(e.Variants))
	for i, v := range e.Variants {
		parts[i] = fmt.Sprintf("%s:%d", v.Name, v.Weight)
	}
	return e.Name + "=" + strings.Join(parts, ",")
}
