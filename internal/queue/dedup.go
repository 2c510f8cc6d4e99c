package queue

import (
	"strings"

	"github.com/tidwall/gjson"
)

// evalDedupKey evaluates a path expression (JSONPath-flavored, e.g.
// "$.threadId" or "threadId") against a JSON payload. If the expression
// yields at least one element, the first is converted to a string and
// returned; otherwise ok is false.
func evalDedupKey(payload, expr string) (string, bool) {
	expr = strings.TrimPrefix(expr, "$.")
	expr = strings.TrimPrefix(expr, "$")

	result := gjson.Get(payload, expr)
	if !result.Exists() {
		return "", false
	}

	if result.IsArray() {
		arr := result.Array()
		if len(arr) == 0 {
			return "", false
		}

		return arr[0].String(), true
	}

	return result.String(), true
}
