// Package pkg provides the libraries behind apiviz API diagrams.
//
// # Overview
//
// apiviz turns DOT diagrams of an API into a PNG plus a client-side image
// map, and makes the host documentation tool accept apiviz's own tags. The
// pkg directory is organized as:
//
//  1. [graphviz] - Drives the Graphviz dot renderer (probe, render, lint)
//  2. [doclet] - Documentation model and the tag-aware interceptor
//  3. [tags] - The apiviz tag set and its materialized tag file
//  4. [errors] - Coded errors shared by all packages
//  5. [observability] - Hooks for probe, render, and suppression events
//
// # Architecture
//
//	host documentation tool
//	         ↓
//	    [doclet] Interceptor (filters tag warnings, adds -knowntags)
//	         ↓
//	    diagram generation (DOT text)
//	         ↓
//	    [graphviz] Invoker → dot -Tcmapx -Tpng
//	         ↓
//	    <name>.png + <name>.map
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/apiviz/pkg/doclet"
//	    "github.com/matzehuels/apiviz/pkg/graphviz"
//	)
//
//	root, err := doclet.NewInterceptor(hostRoot)
//	if err != nil {
//	    return err
//	}
//	// ... generate DOT from root ...
//	out, err := graphviz.WriteImageAndMap(ctx, dot, "docs/api", "overview")
//
// [graphviz]: https://pkg.go.dev/github.com/matzehuels/apiviz/pkg/graphviz
// [doclet]: https://pkg.go.dev/github.com/matzehuels/apiviz/pkg/doclet
// [tags]: https://pkg.go.dev/github.com/matzehuels/apiviz/pkg/tags
// [errors]: https://pkg.go.dev/github.com/matzehuels/apiviz/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/apiviz/pkg/observability
package pkg
