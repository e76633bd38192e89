// Package switcher computes and applies profile switches.
//
// BuildDiffPreview and Switch share one plan builder, so the items shown to
// the user are exactly the operations executed, in the same order. A switch
// moves through the phases Validating, Deactivating and Activating; any
// failure after validation rolls back to the vanilla configuration and
// clears the active profile.
package switcher
