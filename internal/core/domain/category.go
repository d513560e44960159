package domain

import "strings"

// Category is the fixed classification bucket of an expense.
type Category string

const (
	CategoryMedication   Category = "medication"
	CategoryConsultation Category = "consultation"
	CategoryTest         Category = "test"
	CategoryHospital     Category = "hospital"
	CategoryOther        Category = "other"
)

// CategoryAll is the filter value that matches every category.
const CategoryAll = "all"

// DefaultCategory is assigned when a draft leaves the category empty.
const DefaultCategory = CategoryMedication

// CategoryDescriptor is static presentation metadata for a category.
type CategoryDescriptor struct {
	ID          Category `json:"id"`
	DisplayName string   `json:"displayName"`
	Icon        string   `json:"icon"`
	Color       string   `json:"color"`
}

// UnknownCategory is returned when an id does not resolve to any known category.
var UnknownCategory = CategoryDescriptor{
	DisplayName: "Unknown",
	Icon:        "❓",
	Color:       "#94A3B8",
}

var categoryDescriptors = []CategoryDescriptor{
	{ID: CategoryMedication, DisplayName: "Medication", Icon: "💊", Color: "#4F46E5"},
	{ID: CategoryConsultation, DisplayName: "Doctor Visit", Icon: "👨‍⚕️", Color: "#10B981"},
	{ID: CategoryTest, DisplayName: "Medical Tests", Icon: "🔬", Color: "#F59E0B"},
	{ID: CategoryHospital, DisplayName: "Hospital", Icon: "🏥", Color: "#EF4444"},
	{ID: CategoryOther, DisplayName: "Other", Icon: "📌", Color: "#8B5CF6"},
}

// Categories returns the five category descriptors in their display order.
func Categories() []CategoryDescriptor {
	out := make([]CategoryDescriptor, len(categoryDescriptors))
	copy(out, categoryDescriptors)
	return out
}

// DescribeCategory resolves an id to its descriptor. Unknown ids resolve to
// UnknownCategory carrying the requested id, so rendering never fails on
// records written by an older schema.
func DescribeCategory(id Category) CategoryDescriptor {
	for _, d := range categoryDescriptors {
		if d.ID == id {
			return d
		}
	}
	unknown := UnknownCategory
	unknown.ID = id
	return unknown
}

// IsKnown reports whether c is one of the five fixed categories.
func (c Category) IsKnown() bool {
	switch c {
	case CategoryMedication, CategoryConsultation, CategoryTest, CategoryHospital, CategoryOther:
		return true
	}
	return false
}

// Bucket returns the aggregate bucket for c; unrecognized values fold into other.
func (c Category) Bucket() Category {
	if c.IsKnown() {
		return c
	}
	return CategoryOther
}

// ParseCategory normalizes free text (e.g. model output) into a known category.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	return c, c.IsKnown()
}
