package migration

// ID names a migration. It is persisted, so it must stay the same across
// releases once a migration has shipped.
//
// IDs compare with == and can be used as map keys. The zero ID is invalid.
type ID struct {
	value string
}

// NewID returns the ID for s. It panics if s is empty, which makes it suitable
// for package-level declarations.
func NewID(s string) ID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// ParseID returns the ID for s, or ErrEmptyID.
// The string is used as-is: no trimming and no case folding.
func ParseID(s string) (ID, error) {
	if s == "" {
		return ID{}, ErrEmptyID
	}
	return ID{value: s}, nil
}

// String returns the raw identifier, as persisted.
func (id ID) String() string {
	return id.value
}

// IsZero reports whether id is the zero value.
func (id ID) IsZero() bool {
	return id.value == ""
}
