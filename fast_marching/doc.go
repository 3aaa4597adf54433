// Package fastmarching computes unsigned distance functions and extension
// fields from the zero level set of a structured-grid scalar field with the
// Fast Marching Method.
//
// Points move Unknown -> Trial -> Known. Points next to the interface are made
// Known directly from sub-grid interpolation of phi. Every other reachable
// point is finalized in non-decreasing distance order by extracting the
// smallest tentative value from a TrialQueue. Each tentative distance comes
// from a local Eikonal solve, and the extension values are transported with
// the same upwind stencil so that they stay constant along the distance
// gradient.
//
// The distance produced is unsigned; callers wanting signed distance reapply
// the sign of phi.
package fastmarching
