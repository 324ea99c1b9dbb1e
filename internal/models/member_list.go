package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

const memberListSeparator = ","

// MemberList is an ordered set of member codes attached to a task. The codes
// are weak references: nothing guarantees a matching TeamMember exists.
// Stored as a comma-joined string, exposed as a JSON array.
type MemberList []string

// NormalizeMemberCodes trims, lowercases and de-duplicates member codes while
// preserving first-seen order.
func NormalizeMemberCodes(codes []string) MemberList {
	if len(codes) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(codes))
	var out MemberList
	for _, code := range codes {
		code = strings.ToLower(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}

// Contains reports whether the list holds the exact code.
func (m MemberList) Contains(code string) bool {
	for _, candidate := range m {
		if candidate == code {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer, joining the codes into the stored form.
func (m MemberList) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "", nil
	}
	return strings.Join(m, memberListSeparator), nil
}

// Scan implements sql.Scanner, splitting the stored comma-joined string.
func (m *MemberList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*m = nil
		return nil
	case string:
		*m = splitMemberList(v)
		return nil
	case []byte:
		*m = splitMemberList(string(v))
		return nil
	default:
		return fmt.Errorf("cannot scan %T into MemberList", value)
	}
}

func splitMemberList(raw string) MemberList {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, memberListSeparator)
	out := make(MemberList, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GormDataType stores the list in a TEXT column.
func (m MemberList) GormDataType() string {
	return "text"
}
