package stack

import (
	"strings"
)

// Parameters for a git clone step.
type clone struct {
	URL    string
	Branch string   // Branch or tag. Mutually exclusive with Commit.
	Commit string   // Commit hash checked out after a plain clone.
	Path   string   // Parent directory the repository is cloned into.
	Dir    string   // Checkout directory name. Empty uses the repository basename.
	Opts   []string // Extra git clone flags, e.g. --depth=1.
}

// Renders the clone step as a single chained shell command.
func (c clone) command() string {
	dir := c.Dir
	if dir == "" {
		dir = repoBase(c.URL)
	}

	parts := []string{"git", "clone"}
	parts = append(parts, c.Opts...)
	if c.Branch != "" {
		parts = append(parts, "--branch", c.Branch)
	}
	parts = append(parts, c.URL, dir)

	cmd := "mkdir -p " + c.Path + " && cd " + c.Path + " && " +
		strings.Join(parts, " ") + " && cd -"

	if c.Commit != "" {
		cmd += " && cd " + c.Path + "/" + dir +
			" && git checkout " + c.Commit + " && cd -"
	}

	return cmd
}

// Returns the checkout directory git derives from a clone URL.
func repoBase(url string) string {
	base := strings.TrimSuffix(url, ".git")
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	return base
}

// Renders a cmake configure step: creates the build directory and runs
// cmake with the install prefix plus the given options against the
// source directory.
func cmakeConfigure(buildDir, sourceDir, installPrefix string, opts []string) string {
	cmd := "mkdir -p " + buildDir + " && cd " + buildDir +
		" && cmake -DCMAKE_INSTALL_PREFIX=" + installPrefix
	if len(opts) > 0 {
		cmd += " " + strings.Join(opts, " ")
	}
	return cmd + " " + sourceDir
}

// Renders a cmake build step for the install target with the given
// parallelism token.
func cmakeInstall(buildDir, parallel string) string {
	return "cmake --build " + buildDir + " --target install -- -j" + parallel
}

// Renders a download step into the given directory.
func wgetTo(url, dir string) string {
	return "mkdir -p " + dir + " && wget -q -nc -P " + dir + " " + url
}

// Renders a gzip tarball extraction step.
func untar(tarball, dir string) string {
	return "tar -x -f " + tarball + " -C " + dir + " -z"
}

// Renders the consolidated cleanup step for a stage.
func cleanupCommand(paths []string) string {
	return "rm -rf " + strings.Join(paths, " ")
}

const (
	cxxFlagsOpt = "-DCMAKE_CXX_FLAGS="
	libcxxFlag  = "-stdlib=libc++"
)

// Merges the libc++ standard library flag into a cmake option list.
//
// If an option already sets CMAKE_CXX_FLAGS, the flag is appended inside
// that option instead of adding a duplicate flags entry. Merging is
// idempotent: an option list that already carries the flag is returned
// unchanged. The input slice is never modified.
func mergeLibcxxFlag(opts []string) []string {
	merged := make([]string, len(opts))
	copy(merged, opts)

	for i, opt := range merged {
		if !strings.HasPrefix(opt, cxxFlagsOpt) {
			continue
		}
		if strings.Contains(opt, libcxxFlag) {
			return merged
		}

		value := strings.TrimPrefix(opt, cxxFlagsOpt)
		if strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) && len(value) >= 2 {
			inner := value[1 : len(value)-1]
			merged[i] = cxxFlagsOpt + `"` + inner + " " + libcxxFlag + `"`
		} else {
			merged[i] = cxxFlagsOpt + `"` + value + " " + libcxxFlag + `"`
		}
		return merged
	}

	return append(merged, cxxFlagsOpt+`"`+libcxxFlag+`"`)
}

// Generates the common clone-configure-install sequence for a cmake
// project: clone into build_prefix/<name>, configure an out-of-tree
// build directory with the project's options plus the install prefix,
// then build the install target with the configured thread count.
//
// Returns exactly three commands and, unless the configuration keeps
// build files, the build directory followed by the source directory as
// cleanup paths.
func BuildGitCMake(p GitCMakeProject, cfg *Config) (commands, cleanup []string) {
	sourceDir := cfg.BuildPrefix + "/" + p.Name
	buildDir := cfg.BuildPrefix + "/" + p.Name + "_build"

	commands = []string{
		clone{URL: p.URL, Branch: p.Branch, Path: cfg.BuildPrefix, Dir: p.Name}.command(),
		cmakeConfigure(buildDir, sourceDir, cfg.InstallPrefix, p.Opts),
		cmakeInstall(buildDir, cfg.ThreadsForCompile()),
	}

	if !cfg.KeepBuild {
		cleanup = []string{buildDir, sourceDir}
	}

	return commands, cleanup
}
