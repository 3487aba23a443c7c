package users

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is the identifier the users service assigns to a record. The client treats
// it as opaque: it accepts a JSON string or number and re-encodes it verbatim.
type ID struct {
	raw string
}

// StringID builds an ID that encodes as a JSON string.
func StringID(s string) ID {
	return ID{raw: strconv.Quote(s)}
}

// NumberID builds an ID that encodes as a JSON number.
func NumberID(n int64) ID {
	return ID{raw: strconv.FormatInt(n, 10)}
}

// String returns the identifier without JSON quoting.
func (id ID) String() string {
	if len(id.raw) > 0 && id.raw[0] == '"' {
		s, err := strconv.Unquote(id.raw)
		if err == nil {
			return s
		}
	}
	return id.raw
}

// IsZero reports whether the service sent no identifier.
func (id ID) IsZero() bool {
	return id.raw == ""
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.raw == "" {
		return []byte("null"), nil
	}
	return []byte(id.raw), nil
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		id.raw = ""
		return nil
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch v.(type) {
	case string, json.Number:
		id.raw = string(data)
		return nil
	default:
		return fmt.Errorf("user id must be a string or number, got %s", data)
	}
}

// User is a record as returned by the users service
type User struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DraftUser is the not-yet-submitted record the form is editing
type DraftUser struct {
	Name  string `json:"name" form:"name" binding:"required"`
	Email string `json:"email" form:"email" binding:"required"`
}

// IsEmpty reports whether both fields are blank.
func (d DraftUser) IsEmpty() bool {
	return d.Name == "" && d.Email == ""
}
