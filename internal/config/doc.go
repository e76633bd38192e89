// Package config manages user-level settings stored at ~/.orchester/config.yaml.
// Values can be overridden with ORCHESTER_* environment variables; the keys
// cover the tools a switch applies to, the project directory substituted
// for $PROJECT and the registry clone timeout.
package config
