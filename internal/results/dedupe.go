package results

import (
	"strings"

	"pumpwatch/internal/types"
)

// DedupeRows removes repeated (station name, address) pairs across the
// whole run, case-insensitively, keeping the first occurrence. Retained
// rows get their name and address trimmed. Rows missing either field
// always pass through: there is not enough identity to call them
// duplicates. The pass is idempotent.
func DedupeRows(rows []*types.FlatRow) []*types.FlatRow {
	deduped := make([]*types.FlatRow, 0, len(rows))
	seen := make(map[[2]string]bool, len(rows))

	for _, row := range rows {
		name := strings.TrimSpace(deref(row.StationName))
		address := strings.TrimSpace(deref(row.Address))
		if name == "" || address == "" {
			deduped = append(deduped, row)
			continue
		}

		key := [2]string{strings.ToLower(name), strings.ToLower(address)}
		if seen[key] {
			continue
		}
		seen[key] = true

		row.StationName = &name
		row.Address = &address
		deduped = append(deduped, row)
	}

	return deduped
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
