// Package sizing turns capacity summaries into growth-adjusted recommendations.
//
// Each resource is sized by one Sizer, and the recommendations are collected by the Engine.
package sizing
