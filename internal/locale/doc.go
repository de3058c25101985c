// Package locale parses and formats the decimal numbers users type into
// numeric fields, following the separators of their locale.
//
// Separators are discovered by formatting a sample number with
// golang.org/x/text/message, so any locale the CLDR tables know is
// supported without a hand-maintained table.
package locale
