// Package manifest reads and writes profile manifests (manifest.yaml) and
// enumerates the profiles installed in a profile store. Parsing is lossy by
// design of the format: optional fields take defaults and incomplete link
// entries are dropped. Validate applies the stricter JSON schema for
// authors who want those problems reported instead.
package manifest
