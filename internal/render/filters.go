package render

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/osteele/liquid"
)

// TimestampLayout is how unix_time prints a timestamp.
const TimestampLayout = "2006-01-02 15:04:05.000000 UTC"

func registerFilters(e *liquid.Engine) {
	// {{ page.has_next | yesno: "more,last page" }}
	e.RegisterFilter("yesno", yesno)
	// {{ timestamp | unix_time }}
	e.RegisterFilter("unix_time", unixTime)
	// {{ count | pluralize: "y,ies" }}
	e.RegisterFilter("pluralize", pluralize)
	// {{ htmx.triggering_event | json }}
	e.RegisterFilter("json", toJSON)
}

// yesno maps true, false and nil onto the comma separated choices. With only
// two choices nil takes the second.
func yesno(value any, choices string) string {
	if choices == "" {
		choices = "yes,no,maybe"
	}
	parts := strings.Split(choices, ",")
	if len(parts) < 2 {
		return fmt.Sprint(value)
	}
	yes, no := parts[0], parts[1]
	maybe := no
	if len(parts) > 2 {
		maybe = parts[2]
	}
	switch {
	case value == nil:
		return maybe
	case truthy(value):
		return yes
	default:
		return no
	}
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	default:
		return true
	}
}

// unixTime formats seconds since the epoch, fractions included.
func unixTime(value any) string {
	var secs float64
	switch v := value.(type) {
	case float64:
		secs = v
	case float32:
		secs = float64(v)
	case int:
		secs = float64(v)
	case int64:
		secs = float64(v)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return v
		}
		secs = f
	default:
		return fmt.Sprint(value)
	}
	whole, frac := math.Modf(secs)
	return time.Unix(int64(whole), int64(frac*1e9)).UTC().Format(TimestampLayout)
}

// pluralize returns the plural suffix for count. suffix is "s" by default,
// or "singular,plural" such as "y,ies".
func pluralize(value any, suffix string) string {
	if suffix == "" {
		suffix = "s"
	}
	singular, plural := "", suffix
	if s, p, ok := strings.Cut(suffix, ","); ok {
		singular, plural = s, p
	}

	var n float64
	switch v := value.(type) {
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case float64:
		n = v
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return singular
		}
		n = f
	case []any:
		n = float64(len(v))
	case []map[string]any:
		n = float64(len(v))
	default:
		return singular
	}
	if n == 1 {
		return singular
	}
	return plural
}

func toJSON(value any) string {
	b, err := json.Marshal(value)
	if err != nil {
		return "null"
	}
	return string(b)
}
