package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ID is a backend identifier.  The backend emits numeric ids for most
// resources and string codes for a few; ID accepts both and always
// marshals as a string so URLs and cache tags see one form.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Uint returns the id as an unsigned integer when it is numeric.
func (id ID) Uint() (uint64, bool) {
	n, err := strconv.ParseUint(string(id), 10, 64)
	return n, err == nil
}
