package internal

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// ExtractToken returns the bearer token held in an authentication response.
//
// With an empty field the value of the first property of the object, in
// document order, is used whatever its name. The token endpoint has always
// been consumed that way, so a response such as {"access_token": "T"} and
// {"token": "T"} both yield "T". Passing a field name makes that property
// mandatory instead.
func ExtractToken(body []byte, field string) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("token response is not valid JSON")
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return "", fmt.Errorf("token response is not a JSON object")
	}

	var (
		token string
		found bool
	)
	doc.ForEach(func(key, value gjson.Result) bool {
		if field != "" && key.String() != field {
			return true
		}
		token = tokenValue(value)
		found = true
		return false
	})

	switch {
	case !found && field != "":
		return "", fmt.Errorf("token response has no %q field", field)
	case !found:
		return "", fmt.Errorf("token response is an empty object")
	case token == "":
		return "", fmt.Errorf("token response holds an empty token")
	}
	return token, nil
}

// tokenValue renders strings unquoted and anything else as raw JSON text
func tokenValue(value gjson.Result) string {
	switch value.Type {
	case gjson.String:
		return value.String()
	case gjson.Null:
		return ""
	default:
		return value.Raw
	}
}
