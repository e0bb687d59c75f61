package videos

// UnknownCategory is the name used when a category id cannot be resolved.
const UnknownCategory = "Unknown"

// CategoryName looks up id in categories, falling back to UnknownCategory.
// A nil map is valid and resolves everything to UnknownCategory.
func CategoryName(categories map[string]string, id string) string {
	if name := categories[id]; name != "" {
		return name
	}
	return UnknownCategory
}
