// Package core defines the shared vocabulary of the coffeelint system.
//
// This package contains:
//   - Severity levels attached to diagnostics
//   - RuleInfo, the tooling-facing description of a rule
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
