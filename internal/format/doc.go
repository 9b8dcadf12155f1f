// Package format holds presentation helpers shared by the CLI: duration,
// number and progress formatting.
package format
