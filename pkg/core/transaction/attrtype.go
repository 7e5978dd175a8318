package transaction

import "strconv"

// AttrType represents the purpose of the attribute.
type AttrType uint8

// List of valid attribute types.
const (
	HighPriority    AttrType = 1
	OracleResponseT AttrType = 0x11
	NotValidBeforeT AttrType = 0x20
	ConflictsT      AttrType = 0x21
)

func (a AttrType) allowMultiple() bool {
	return a == ConflictsT
}

// String implements the fmt.Stringer interface.
func (a AttrType) String() string {
	switch a {
	case HighPriority:
		return "HighPriority"
	case OracleResponseT:
		return "OracleResponse"
	case NotValidBeforeT:
		return "NotValidBefore"
	case ConflictsT:
		return "Conflicts"
	default:
		return "AttrType(" + strconv.FormatInt(int64(a), 10) + ")"
	}
}
