// Package config provides scavenger's layered configuration: compiled-in
// defaults, an optional YAML file, and CLI flags, in that order of
// increasing precedence.
package config
