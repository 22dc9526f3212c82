// Package preset holds the encoding presets: a closed set of target codecs,
// each mapped to an output container extension and an ordered list of
// encoder parameters.
//
// Presets are data. [Default] ships the built-in set; [Load] replaces it
// wholesale from a YAML or JSON file and rejects unknown codec identifiers
// at load time. [Dump] writes the same forms back, and dumping a loaded dump
// reproduces it byte for byte.
package preset
