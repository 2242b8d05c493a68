// Package converters maps converter identifiers from flow configuration
// to partner converter implementations.
//
// Every converter is registered statically by RegisterDefaults. A flow
// names its converter as "<partner>.<kind>", for example "gnc.orders".
package converters
