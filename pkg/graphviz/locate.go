package graphviz

import (
	"os"
	"path/filepath"
	"runtime"
)

// HomeEnv names the environment variable consulted for the Graphviz home
// directory when [Locator.Home] is empty.
const HomeEnv = "GRAPHVIZ_HOME"

// Location is a resolved renderer invocation target.
type Location struct {
	// Executable is the program to run: a bare name looked up on PATH or an
	// absolute path.
	Executable string

	// Dir is the working directory for the renderer. Empty means inherit.
	Dir string
}

// Locator resolves the renderer [Location]. The zero value reads
// GRAPHVIZ_HOME and picks the platform default executable.
//
// Resolution is repeated on every call and never cached, so changes to the
// environment take effect on the next probe or render.
type Locator struct {
	// Home overrides GRAPHVIZ_HOME when non-empty.
	Home string

	// Executable, when non-empty, is used verbatim instead of dot/dot.exe.
	Executable string

	// goos overrides runtime.GOOS in tests.
	goos string
}

// Resolve returns the executable and working directory to use.
func (l Locator) Resolve() Location {
	home := l.home()
	exe := l.Executable
	if exe == "" {
		exe = defaultExecutable(l.platform(), home)
	}
	return Location{Executable: exe, Dir: home}
}

// home returns the configured Graphviz home if it is an existing directory.
func (l Locator) home() string {
	dir := l.Home
	if dir == "" {
		dir = os.Getenv(HomeEnv)
	}
	if dir == "" {
		return ""
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return ""
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return dir
}

func (l Locator) platform() string {
	if l.goos != "" {
		return l.goos
	}
	return runtime.GOOS
}

// defaultExecutable mirrors how Graphviz is installed: on PATH as "dot" on
// Unix-likes, and as dot.exe inside the install directory on Windows.
func defaultExecutable(goos, home string) string {
	if goos != "windows" {
		return "dot"
	}
	if home != "" {
		return filepath.Join(home, "dot.exe")
	}
	return "dot.exe"
}
