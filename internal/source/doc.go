// Package source loads the strings to type from files and watches them
// for changes.
//
// Supported formats are chosen by extension:
//
//	.txt         one string per non-empty line, lines starting with # are comments
//	.json        a gjson path, "strings" by default
//	.yaml, .yml  a dotted key, "strings" by default
//	.toml        a dotted key, "strings" by default
//
// The value at the path may be a list of strings or a single string.
package source
