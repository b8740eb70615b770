// Package dynemf provides a fluent API on top of the reflective model
// framework in package ecore.
//
// Wrappers are transient views of framework objects. Operations are
// resolved by feature or class name at call time and return the wrapper
// again, so that calls can be chained:
//
//	rs := dynemf.RSet().RegisterPath("simple.ecore")
//	mm := rs.EPackage("http://DynEMF/simple/1.0")
//	rs.Create("gen.xmi").Add(mm.Create("A").Set("name", "test")).Save()
//
// The first error of a chain is kept by the wrapper and returned by Err.
// Subsequent operations on an erroneous wrapper are ignored.
package dynemf
