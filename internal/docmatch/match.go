/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docmatch

import (
	"fmt"
	"regexp"
	"strings"
)

// Match reports whether doc satisfies filter.
func Match(doc map[string]any, filter map[string]any) (bool, error) {
	for key, cond := range filter {
		ok, err := matchKey(doc, key, cond)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func matchKey(doc map[string]any, key string, cond any) (bool, error) {
	switch key {
	case "$and", "$or", "$nor":
		clauses, ok := asSlice(cond)
		if !ok || len(clauses) == 0 {
			return false, fmt.Errorf("%s requires a non-empty array", key)
		}
		for _, c := range clauses {
			sub, ok := asMap(c)
			if !ok {
				return false, fmt.Errorf("%s elements must be objects", key)
			}
			m, err := Match(doc, sub)
			if err != nil {
				return false, err
			}
			switch {
			case key == "$and" && !m:
				return false, nil
			case key == "$or" && m:
				return true, nil
			case key == "$nor" && m:
				return false, nil
			}
		}
		return key != "$or", nil
	}
	if strings.HasPrefix(key, "$") {
		return false, fmt.Errorf("unsupported top-level operator %s", key)
	}
	val, exists := Lookup(doc, key)
	return matchField(val, exists, cond)
}

// operatorObject returns cond when it is an object whose keys are all operators.
func operatorObject(cond any) (map[string]any, bool) {
	m, ok := asMap(cond)
	if !ok || len(m) == 0 {
		return nil, false
	}
	for k := range m {
		if !strings.HasPrefix(k, "$") {
			return nil, false
		}
	}
	return m, true
}

func matchField(val any, exists bool, cond any) (bool, error) {
	ops, ok := operatorObject(cond)
	if !ok {
		return exists && equalsOrContains(val, cond), nil
	}
	for op, arg := range ops {
		m, err := applyOperator(val, exists, op, arg, ops)
		if err != nil || !m {
			return false, err
		}
	}
	return true, nil
}

func equalsOrContains(val, target any) bool {
	if Equal(val, target) {
		return true
	}
	if arr, ok := asSlice(val); ok {
		for _, elem := range arr {
			if Equal(elem, target) {
				return true
			}
		}
	}
	return false
}

// anyValue applies pred to val, or to each element when val is an array.
func anyValue(val any, pred func(any) bool) bool {
	if pred(val) {
		return true
	}
	if arr, ok := asSlice(val); ok {
		for _, elem := range arr {
			if pred(elem) {
				return true
			}
		}
	}
	return false
}

func applyOperator(val any, exists bool, op string, arg any, siblings map[string]any) (bool, error) {
	switch op {
	case "$eq":
		return exists && equalsOrContains(val, arg), nil
	case "$ne":
		return !exists || !equalsOrContains(val, arg), nil
	case "$gt", "$gte", "$lt", "$lte":
		if !exists {
			return false, nil
		}
		return anyValue(val, func(v any) bool {
			if typeRank(v) != typeRank(arg) {
				return false
			}
			c := Compare(v, arg)
			switch op {
			case "$gt":
				return c > 0
			case "$gte":
				return c >= 0
			case "$lt":
				return c < 0
			}
			return c <= 0
		}), nil
	case "$in", "$nin":
		candidates, ok := asSlice(arg)
		if !ok {
			return false, fmt.Errorf("%s requires an array", op)
		}
		found := false
		if exists {
			for _, c := range candidates {
				if equalsOrContains(val, c) {
					found = true
					break
				}
			}
		}
		if op == "$in" {
			return found, nil
		}
		return !found, nil
	case "$exists":
		want, ok := arg.(bool)
		if !ok {
			f, isNum := toFloat(arg)
			if !isNum {
				return false, fmt.Errorf("$exists requires a boolean")
			}
			want = f != 0
		}
		return exists == want, nil
	case "$not":
		m, err := matchField(val, exists, arg)
		return !m, err
	case "$all":
		required, ok := asSlice(arg)
		if !ok {
			return false, fmt.Errorf("$all requires an array")
		}
		arr, ok := asSlice(val)
		if !ok || !exists {
			return false, nil
		}
		for _, r := range required {
			if !equalsOrContains(arr, r) {
				return false, nil
			}
		}
		return true, nil
	case "$size":
		n, ok := toFloat(arg)
		if !ok {
			return false, fmt.Errorf("$size requires a number")
		}
		arr, ok := asSlice(val)
		return ok && float64(len(arr)) == n, nil
	case "$elemMatch":
		sub, ok := asMap(arg)
		if !ok {
			return false, fmt.Errorf("$elemMatch requires an object")
		}
		arr, ok := asSlice(val)
		if !ok {
			return false, nil
		}
		for _, elem := range arr {
			var m bool
			var err error
			if em, isObj := asMap(elem); isObj && !isOperatorMap(sub) {
				m, err = Match(em, sub)
			} else {
				m, err = matchField(elem, true, sub)
			}
			if err != nil {
				return false, err
			}
			if m {
				return true, nil
			}
		}
		return false, nil
	case "$regex":
		pattern, ok := arg.(string)
		if !ok {
			return false, fmt.Errorf("$regex requires a string")
		}
		if opts, ok := siblings["$options"].(string); ok {
			if flags := regexFlags(opts); flags != "" {
				pattern = "(?" + flags + ")" + pattern
			}
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false, fmt.Errorf("invalid $regex: %w", err)
		}
		return exists && anyValue(val, func(v any) bool {
			s, ok := v.(string)
			return ok && re.MatchString(s)
		}), nil
	case "$options":
		return true, nil
	default:
		return false, fmt.Errorf("unsupported operator %s", op)
	}
}

func isOperatorMap(m map[string]any) bool {
	_, ok := operatorObject(m)
	return ok
}

func regexFlags(options string) string {
	var b strings.Builder
	for _, r := range options {
		switch r {
		case 'i', 'm', 's':
			b.WriteRune(r)
		}
	}
	return b.String()
}
