// Package graphviz drives the external Graphviz "dot" renderer.
//
// # Overview
//
// apiviz hands finished DOT text to dot and gets back two artifacts: a PNG
// image and a client-side image map (cmapx) whose regions link diagram nodes
// to their documentation pages. This package owns that subprocess boundary:
//
//   - [Locator] resolves which executable to run and where
//   - [Prober] answers whether a usable renderer is installed
//   - [Invoker] renders one diagram to <base>.png and <base>.map
//   - [Embedded] renders the same artifacts in-process via go-graphviz
//   - [Lint] checks DOT syntax without rendering
//
// # Usage
//
//	if !graphviz.IsAvailable(ctx) {
//	    return errors.New("install Graphviz")
//	}
//	out, err := graphviz.WriteImageAndMap(ctx, dot, "docs/api", "overview")
//	// out.ImagePath = docs/api/overview.png
//	// out.MapPath   = docs/api/overview.map
//
// # Pipes
//
// dot may emit warnings before it has consumed all of its input. The
// [Invoker] therefore writes stdin and drains the merged stdout/stderr stream
// on two goroutines and only waits for the process once both are done, so a
// diagram larger than the OS pipe buffer cannot deadlock a render.
//
// # Configuration
//
// The Graphviz home directory is taken from [Locator.Home] or, when empty,
// from the GRAPHVIZ_HOME environment variable. It must name an existing
// directory; otherwise it is ignored. When set it becomes the renderer's
// working directory and, on Windows, the directory holding dot.exe.
//
// Renders are unbounded by default. Set [Invoker.Timeout] or cancel the
// context to terminate a hung renderer.
package graphviz
