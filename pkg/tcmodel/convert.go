package tcmodel

import "time"

// Defaults applied when a raw record lacks the source property.
const (
	defaultType     = "Unknown"
	defaultRevision = "A"
	defaultOwner    = "Unknown"
)

// timeFormats are the timestamp layouts the backend has been seen to emit.
var timeFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05",
}

// ConvertItem maps a raw backend item record into the canonical Item. It is
// a pure function: every field has a defined default and missing optional
// properties never cause a failure.
//
// Records arrive in two layouts: flat (property name → value) and the
// formatted-properties layout where values sit under
// props.<name>.uiValues/dbValues. Both are read, flat values first.
func ConvertItem(raw map[string]any) Item {
	id := propString(raw, "uid")
	if id == "" {
		id = propString(raw, "item_id")
	}

	item := Item{
		ID:           id,
		Name:         propString(raw, "object_name"),
		Type:         propString(raw, "object_type"),
		Revision:     propString(raw, "item_revision_id"),
		Owner:        propString(raw, "owning_user"),
		Status:       deriveStatus(propList(raw, "release_status_list")),
		Description:  propString(raw, "object_desc"),
		Title:        propString(raw, "object_string"),
		Thumbnail:    propString(raw, "awp0ThumbnailImageTicket"),
		LastModified: parseTime(propString(raw, "last_mod_date")),
	}

	if item.Type == "" {
		item.Type = defaultType
	}
	if item.Revision == "" {
		item.Revision = defaultRevision
	}
	if item.Owner == "" {
		item.Owner = defaultOwner
	}
	return item
}

// ConvertItems converts a slice of raw records, preserving order.
func ConvertItems(raws []map[string]any) []Item {
	items := make([]Item, 0, len(raws))
	for _, raw := range raws {
		items = append(items, ConvertItem(raw))
	}
	return items
}

// deriveStatus inspects the release-status list. "Released" wins over
// "In Review", which wins over "Obsolete"; the order is significant. An
// absent or unrecognized list yields "In Work".
func deriveStatus(statuses []string) Status {
	var inReview, obsolete bool
	for _, s := range statuses {
		switch Status(s) {
		case StatusReleased:
			return StatusReleased
		case StatusInReview:
			inReview = true
		case StatusObsolete:
			obsolete = true
		}
	}
	switch {
	case inReview:
		return StatusInReview
	case obsolete:
		return StatusObsolete
	default:
		return StatusInWork
	}
}

// parseTime parses a backend timestamp; an absent or unparseable value
// defaults to the current time.
func parseTime(value string) time.Time {
	for _, layout := range timeFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Now()
}

// propString reads a string property, checking the flat layout first and
// then props.<key>.uiValues[0] / dbValues[0].
func propString(raw map[string]any, key string) string {
	if v, ok := raw[key].(string); ok {
		return v
	}
	values := formattedValues(raw, key)
	if len(values) > 0 {
		return values[0]
	}
	return ""
}

// propList reads a list property from either layout. A bare string is
// treated as a single-element list.
func propList(raw map[string]any, key string) []string {
	switch v := raw[key].(type) {
	case []any:
		return toStrings(v)
	case []string:
		return v
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	}
	return formattedValues(raw, key)
}

// formattedValues extracts props.<key>.uiValues (falling back to dbValues)
// from the formatted-properties layout.
func formattedValues(raw map[string]any, key string) []string {
	props, ok := raw["props"].(map[string]any)
	if !ok {
		return nil
	}
	prop, ok := props[key].(map[string]any)
	if !ok {
		return nil
	}
	if ui, ok := prop["uiValues"].([]any); ok && len(ui) > 0 {
		return toStrings(ui)
	}
	if db, ok := prop["dbValues"].([]any); ok && len(db) > 0 {
		return toStrings(db)
	}
	return nil
}

func toStrings(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
