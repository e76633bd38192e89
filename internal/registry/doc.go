// Package registry knows which orchestration profiles can be installed,
// fetches them from git and turns a checkout into a profile directory with
// a manifest.
package registry
