// Package config handles configuration loading, parsing, and validation
// from defaults, an optional config file and SCRY_-prefixed environment
// variables. It keeps configuration details separate from the reconciler,
// the mutation service and the gateway backends that consume them.
package config
