// Package base holds the building blocks shared by partner converters:
// per-invocation packaging resolution, tolerant JSON decoding, delimited
// writers and the options every converter is built with.
package base
