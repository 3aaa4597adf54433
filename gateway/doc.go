/*
Package gateway implements the two host call contracts: extension fields by
fast marching and upwind HJ ENO derivatives. Arrays arrive as types.Array with
their shape in storage order and spacing in natural (x, y, z) order. The
gateway validates everything before computing, resolves the floating-point
precision once per call and hands the work to the generic cores.
*/
package gateway
