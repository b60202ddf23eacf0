package args

import (
	"fmt"
	"strconv"
	"strings"
)

// Enum decodes the field at index as a member of an integer-backed enumeration.
//
// The field may hold a member name from names or the decimal value of a
// defined member. A missing field resolves to def[0], or "0".
//
//	type Easing int
//	var easings = map[string]Easing{"Linear": 0, "EaseIn": 1}
//	e, err := args.Enum(a, 2, easings)
func Enum[T ~int](a *Arguments, index int, names map[string]T, def ...string) (T, error) {
	raw := a.resolve(index, "0", def)
	key := strings.TrimSpace(raw)

	if v, ok := names[key]; ok {
		return v, nil
	}

	if n, err := strconv.Atoi(key); err == nil {
		for _, v := range names {
			if int(v) == n {
				return v, nil
			}
		}
	}

	var zero T
	return zero, newDecodeError(index, raw, KindEnum, fmt.Errorf("unknown member %q", key))
}
