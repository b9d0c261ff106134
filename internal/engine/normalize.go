package engine

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/coursepilot/coursepilot/internal/catalog"
)

// Args is an argument mapping as decoded from a model tool call.
type Args = map[string]any

// Alias maps a synonym parameter name to the canonical name an action
// declares. Order matters: aliases are applied in a single pass over the
// table, so a chained rewrite only happens when the intermediate name
// becomes eligible within that same pass.
type Alias struct {
	From string
	To   string
}

// DefaultAliases covers the parameter names models habitually substitute
// for the ones Canvas actions actually declare.
var DefaultAliases = []Alias{
	{From: "content", To: "body"},
	{From: "subject", To: "title"},
	{From: "body", To: "message"},
	{From: "is_published", To: "published"},
}

// Normalize prepares a raw argument mapping for execution against the given
// action. It injects contextual defaults, rewrites include_items into an
// include array, applies the alias table, coerces values to the declared
// parameter types and finally drops every key the action does not declare.
// The returned slice lists the dropped keys. The input map is not mutated.
func Normalize(action catalog.Action, raw Args, aliases []Alias, defaults Args) (Args, []string) {
	args := make(Args, len(raw))
	for k, v := range raw {
		args[k] = v
	}

	for name, val := range defaults {
		if !action.HasParam(name) {
			continue
		}
		if isFalsy(args[name]) {
			args[name] = val
		}
	}

	if v, ok := args["include_items"]; ok {
		delete(args, "include_items")
		if includeItemsTruthy(v) {
			include, _ := args["include"].([]any)
			args["include"] = append(include, "items")
		}
	}

	// Single pass over the alias table. A rewrite fires only when the
	// synonym is present, the synonym itself is not a declared parameter
	// and the canonical name is.
	for _, a := range aliases {
		v, ok := args[a.From]
		if !ok {
			continue
		}
		if action.HasParam(a.From) || !action.HasParam(a.To) {
			continue
		}
		delete(args, a.From)
		args[a.To] = v
	}

	for key, val := range args {
		p, ok := action.Param(key)
		if !ok {
			continue
		}
		args[key] = coerce(val, p.Type)
	}

	var dropped []string
	for key := range args {
		if !action.HasParam(key) {
			dropped = append(dropped, key)
		}
	}
	for _, key := range dropped {
		delete(args, key)
	}
	sort.Strings(dropped)
	return args, dropped
}

// coerce converts val to the declared parameter type on a best-effort
// basis. Unparseable strings are left unchanged rather than failing; the
// remote API produces the authoritative validation error.
func coerce(val any, typ catalog.ParamType) any {
	switch typ {
	case catalog.TypeInteger:
		switch v := val.(type) {
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return n
			}
		case float64:
			if v == math.Trunc(v) {
				return int(v)
			}
		}
	case catalog.TypeNumber:
		if s, ok := val.(string); ok {
			if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				return f
			}
		}
	case catalog.TypeBoolean:
		if s, ok := val.(string); ok {
			switch strings.ToLower(s) {
			case "true", "1", "yes":
				return true
			default:
				return false
			}
		}
		if b, ok := val.(bool); ok {
			return b
		}
		return !isFalsy(val)
	}
	return val
}

func includeItemsTruthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true" || t == "True" || t == "1"
	}
	return false
}

func isFalsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	case int:
		return t == 0
	case int64:
		return t == 0
	case float64:
		return t == 0
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}
