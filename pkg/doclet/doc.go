// Package doclet models the documentation tree a host documentation tool
// hands to apiviz, and wraps it so that the host stays quiet about apiviz's
// own tags.
//
// # Model
//
// [RootDoc] is the entry point: it describes the processed source tree
// ([PackageDoc], [ClassDoc]), reports diagnostics back to the host
// ([ErrorReporter]), and exposes the command-line options the host was
// invoked with. Hosts supply their own implementation; [Static] is an
// in-memory one for tools and tests.
//
// # Interception
//
// [Interceptor] forwards every call to the wrapped root except two:
//
//   - Warnings mentioning a tag from package tags (the tag name followed by a
//     space) are dropped.
//   - Options gains one trailing {"-knowntags", path} row pointing at the
//     materialized tag list.
//
// Usage:
//
//	root, err := doclet.NewInterceptor(hostRoot, doclet.WithLogger(logger))
//	if err != nil {
//	    return err // tag list could not be written
//	}
//	generate(root)
package doclet
