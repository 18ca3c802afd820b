package provider

import (
	"encoding/json"
	"fmt"
)

// outputString implements the "objects JSON-serialized" rule used by
// `equals`, `contains`, `starts-with`, and friends (§4.2).
func outputString(output any) string {
	switch v := output.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}
