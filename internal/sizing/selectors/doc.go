// Package selectors provides the Sizer implementations of the sizing engine.
//
// Each selector sizes one resource from its overview in a capacity.Summary. Defaults for the basis and
// growth can be overridden with options and are used when a selection leaves them empty.
package selectors
