package query

import (
	"net/url"
	"strconv"
)

// FilterSet represents an ordered mapping of filter field names to one or more values.
// Fields keep the order they were first declared in, which makes the composed query
// string reproducible. Empty values are never recorded, so a field that was only ever
// assigned empty values does not appear in the composed query at all.
type FilterSet struct {
	fields []filterField
}

type filterField struct {
	key    string
	values []string
}

// NewFilterSet creates a new empty filter set
func NewFilterSet() *FilterSet {
	return &FilterSet{}
}

// Set assigns a single value to a field, replacing any previously assigned values.
// Assigning an empty value removes the field instead.
func (set *FilterSet) Set(key, value string) {
	if value == "" {
		set.Unset(key)
		return
	}
	set.assign(key, []string{value})
}

// SetInt assigns a single integer value to a field, replacing any previously assigned values
func (set *FilterSet) SetInt(key string, value int64) {
	set.assign(key, []string{strconv.FormatInt(value, 10)})
}

// SetValues assigns a sequence of values to a field, replacing any previously assigned values.
// Empty elements are dropped; if no elements remain, the field is removed instead.
func (set *FilterSet) SetValues(key string, values []string) {
	kept := make([]string, 0, len(values))
	for _, value := range values {
		if value != "" {
			kept = append(kept, value)
		}
	}
	if len(kept) == 0 {
		set.Unset(key)
		return
	}
	set.assign(key, kept)
}

// Unset removes a field and all of its values
func (set *FilterSet) Unset(key string) {
	for i, field := range set.fields {
		if field.key == key {
			set.fields = append(set.fields[:i], set.fields[i+1:]...)
			return
		}
	}
}

// Has returns whether at least one value is assigned to the given field
func (set *FilterSet) Has(key string) bool {
	for _, field := range set.fields {
		if field.key == key {
			return true
		}
	}
	return false
}

// Get returns the first value assigned to the given field or an empty string if the field is not present
func (set *FilterSet) Get(key string) string {
	for _, field := range set.fields {
		if field.key == key {
			return field.values[0]
		}
	}
	return ""
}

// Len returns the amount of present fields
func (set *FilterSet) Len() int {
	return len(set.fields)
}

// Clone creates a deep copy of the filter set
func (set *FilterSet) Clone() *FilterSet {
	clone := &FilterSet{
		fields: make([]filterField, len(set.fields)),
	}
	for i, field := range set.fields {
		values := make([]string, len(field.values))
		copy(values, field.values)
		clone.fields[i] = filterField{
			key:    field.key,
			values: values,
		}
	}
	return clone
}

// Encode composes the canonical query string representation of the filter set.
// Fields are emitted in declaration order, sequence-valued fields as one key=value pair
// per element in element order, and all keys and values are percent-encoded.
// The result carries no leading '?'.
func (set *FilterSet) Encode() string {
	buf := make([]byte, 0, 64)
	for _, field := range set.fields {
		for _, value := range field.values {
			if len(buf) > 0 {
				buf = append(buf, '&')
			}
			buf = append(buf, url.QueryEscape(field.key)...)
			buf = append(buf, '=')
			buf = append(buf, url.QueryEscape(value)...)
		}
	}
	return string(buf)
}

func (set *FilterSet) assign(key string, values []string) {
	for i, field := range set.fields {
		if field.key == key {
			set.fields[i].values = values
			return
		}
	}
	set.fields = append(set.fields, filterField{
		key:    key,
		values: values,
	})
}
