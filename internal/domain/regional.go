package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const RegionNational = "NACIONAL"

// Regional is either a single region name or a list of regions (a massive
// broadcast). It round-trips through JSON in whichever shape it arrived.
type Regional struct {
	Value  string
	List   []string
	IsList bool
}

func SingleRegion(v string) Regional {
	return Regional{Value: v}
}

func RegionList(v ...string) Regional {
	return Regional{List: v, IsList: true}
}

func (r Regional) IsEmpty() bool {
	if r.IsList {
		return len(r.List) == 0
	}
	return strings.TrimSpace(r.Value) == ""
}

// String flattens a list with ", " for the audit record.
func (r Regional) String() string {
	if r.IsList {
		return strings.Join(r.List, ", ")
	}
	return r.Value
}

func (r Regional) MarshalJSON() ([]byte, error) {
	if r.IsList {
		list := r.List
		if list == nil {
			list = []string{}
		}
		return json.Marshal(list)
	}
	return json.Marshal(r.Value)
}

func (r *Regional) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Regional{}
		return nil
	}

	switch data[0] {
	case '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("regional: %w", err)
		}
		*r = Regional{List: list, IsList: true}
	case '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("regional: %w", err)
		}
		*r = Regional{Value: v}
	default:
		return fmt.Errorf("regional: expected string or array of strings")
	}

	return nil
}
