// Package jsondoc reads and writes JSON documents without losing key order.
//
// Objects decode to *Object, arrays to []any, numbers to json.Number and the
// remaining scalars to string, bool and nil. Format renders a value in a
// fixed layout (one member per line) so that formatting the same value twice
// always yields the same bytes.
package jsondoc
