package helper

import (
	"strconv"
	"strings"

	customerrors "librarian_backend/internals/customErrors"
)

// ParseID reads a positive numeric id from a path or query value.
func ParseID(raw, field string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, customerrors.ValidationFields("Invalid "+field, map[string]string{
			field: field + " must be a positive integer",
		})
	}
	return uint(id), nil
}

// ParseOptionalID is ParseID for optional query values; blank yields nil.
func ParseOptionalID(raw, field string) (*uint, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := ParseID(raw, field)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// SplitCSV turns "a, b,,c" into [a b c].
func SplitCSV(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if s := strings.ToLower(strings.TrimSpace(p)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
