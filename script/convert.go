package script

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
)

// toObject converts a dispatch argument into a tengo value. Values tengo
// cannot represent are stringified rather than dropped.
func toObject(v any) tengo.Object {
	if o, ok := v.(tengo.Object); ok {
		return o
	}
	o, err := tengo.FromInterface(v)
	if err != nil {
		return &tengo.String{Value: fmt.Sprintf("%v", v)}
	}
	return o
}

// ObjectAsString unwraps a tengo value into its string form without quotes.
func ObjectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

// ObjectToAny unwraps a tengo value into plain Go data.
func ObjectToAny(obj tengo.Object) any {
	if obj == nil {
		return nil
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return int(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, ObjectToAny(item))
		}
		return out
	case *tengo.ImmutableArray:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, ObjectToAny(item))
		}
		return out
	case *tengo.Map:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = ObjectToAny(item)
		}
		return out
	case *tengo.ImmutableMap:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = ObjectToAny(item)
		}
		return out
	case *tengo.Undefined:
		return nil
	default:
		return v.String()
	}
}
