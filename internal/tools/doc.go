// Package tools names the AI coding tools orchester can apply profiles to
// and maps each tool's configuration directory kinds (agents, skills,
// hooks, ...) to concrete paths. Tool identity enters the system as a loose
// string only once, through Normalize or Parse; everything downstream works
// with the closed ID type.
package tools
