// Package categories resolves category selections into the triple embedded in
// each post and derives the taxonomy shown as board filters.
package categories

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/bizboard/internal/client/models"
	"github.com/dmitrijs2005/bizboard/internal/common"
)

const (
	// CustomPrefix starts every synthesized category value.
	CustomPrefix = "custom-"
	// CustomColor is shared by all custom categories.
	CustomColor = "#E5E7EB"
	// DefaultColor is used for a selection that is not in the canonical set.
	DefaultColor = "#F1F0FB"
)

var canonical = []models.Category{
	{Value: "civil-project", Label: "Civil Projects", Color: "#F2FCE2"},
	{Value: "electrical-project", Label: "Electrical Projects", Color: "#FEF7CD"},
	{Value: "electrical-studies", Label: "Electrical Studies", Color: "#FEC6A1"},
	{Value: "environmental-services", Label: "Environmental Services", Color: "#E5DEFF"},
	{Value: "engineering-consulting", Label: "Engineering Consulting", Color: "#FFDEE2"},
	{Value: "equipment", Label: "Equipment", Color: "#FDE1D3"},
	{Value: "o-and-m", Label: "O&M", Color: "#D3E4FD"},
	{Value: "training-courses", Label: "Training & Courses", Color: "#F1F0FB"},
}

var whitespace = regexp.MustCompile(`\s+`)

// Registry is immutable and safe for concurrent use.
type Registry struct {
	canonical []models.Category
	byValue   map[string]models.Category
}

func NewRegistry() *Registry {
	return newRegistry(canonical)
}

func newRegistry(set []models.Category) *Registry {
	r := &Registry{
		canonical: append([]models.Category(nil), set...),
		byValue:   make(map[string]models.Category, len(set)),
	}
	for _, c := range set {
		r.byValue[c.Value] = c
	}
	return r
}

// Canonical returns a copy of the fixed category set in display order.
func (r *Registry) Canonical() []models.Category {
	return append([]models.Category(nil), r.canonical...)
}

func (r *Registry) IsCanonical(value string) bool {
	_, ok := r.byValue[value]
	return ok
}

// Resolve turns a selection into the category triple stored on a post.
// The "other" selection synthesizes a custom category from customLabel;
// customLabel is ignored for every other selection.
func (r *Registry) Resolve(selection, customLabel string) (models.Category, error) {
	if selection == common.OtherCategory {
		label := strings.TrimSpace(customLabel)
		if label == "" {
			return models.Category{}, fmt.Errorf("%w: custom category label is empty", common.ErrValidation)
		}
		return models.Category{Value: Slugify(label), Label: label, Color: CustomColor}, nil
	}

	if c, ok := r.byValue[selection]; ok {
		return c, nil
	}
	return models.Category{Value: selection, Label: "", Color: DefaultColor}, nil
}

// Slugify maps a free-text label to a custom category value. Labels that
// differ only in case or whitespace share one value.
func Slugify(label string) string {
	s := strings.ToLower(strings.TrimSpace(label))
	return CustomPrefix + whitespace.ReplaceAllString(s, "-")
}

// DeriveDisplayTaxonomy lists the canonical categories followed by every other
// category value found in posts, in first-seen order. The "other" selector is
// never part of the result.
func (r *Registry) DeriveDisplayTaxonomy(posts []models.Post) []models.Category {
	out := r.Canonical()
	seen := make(map[string]struct{}, len(out)+len(posts))
	for _, c := range out {
		seen[c.Value] = struct{}{}
	}

	for _, p := range posts {
		v := p.Category.Value
		if v == "" || v == common.OtherCategory {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}
