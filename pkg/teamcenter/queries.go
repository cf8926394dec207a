package teamcenter

// Search providers. Earlier snapshots of this server used differing provider
// names and filter-key casing; the full-text provider with the "Type" filter
// key is the current form.
const (
	fullTextProvider = "Awp0FullTextSearchProvider"

	typeFilterKey  = "Type"
	ownerFilterKey = "OwningUser"

	creationDateField = "creation_date"
)

// fullTextSearchParams builds a performSearch body for a user query,
// optionally narrowed to one item type, newest-first by creation date.
func fullTextSearchParams(query, itemType string, limit int) map[string]any {
	filters := map[string]any{}
	if itemType != "" {
		filters[typeFilterKey] = []any{stringFilter(itemType)}
	}
	return searchInput(query, filters, limit)
}

// ownedItemsParams builds a performSearch body for items owned by uid.
func ownedItemsParams(uid string, limit int) map[string]any {
	filters := map[string]any{
		ownerFilterKey: []any{stringFilter(uid)},
	}
	return searchInput("*", filters, limit)
}

// lastCreatedParams builds a performSearch body for all items, newest-first.
func lastCreatedParams(limit int) map[string]any {
	return searchInput("*", map[string]any{}, limit)
}

func searchInput(query string, filters map[string]any, limit int) map[string]any {
	return map[string]any{
		"searchInput": map[string]any{
			"providerName": fullTextProvider,
			"searchCriteria": map[string]any{
				"searchString": query,
			},
			"startIndex":      0,
			"maxToLoad":       limit,
			"maxToReturn":     limit,
			"searchFilterMap": filters,
			"searchSortCriteria": []any{
				map[string]any{
					"fieldName":     creationDateField,
					"sortDirection": "DESC",
				},
			},
		},
	}
}

func stringFilter(value string) map[string]any {
	return map[string]any{
		"searchFilterType": "StringFilter",
		"stringValue":      value,
	}
}
