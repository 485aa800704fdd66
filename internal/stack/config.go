package stack

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xcc-stack/xccgen/internal/recipe"
)

// CMake build type variants recognized by the stack.
const (
	Debug          BuildType = "DEBUG"
	Release        BuildType = "RELEASE"
	RelWithDebInfo BuildType = "RELWITHDEBINFO"
	MinSizeRel     BuildType = "MINSIZEREL"
)

// A CMAKE_BUILD_TYPE value.
type BuildType string

// Parses a CMake build type, case-insensitively.
func ParseBuildType(s string) (BuildType, error) {
	bt := BuildType(strings.ToUpper(s))
	switch bt {
	case Debug, Release, RelWithDebInfo, MinSizeRel:
		return bt, nil
	}
	return "", fmt.Errorf("%w: build type %q", ErrConfig, s)
}

// Token emitted into generated commands when no explicit thread count is
// configured. Expanded by the shell inside the container at build time.
const allCoresToken = "$(nproc)"

// Clang versions the LLVM apt repository setup supports.
var supportedClangVersions = []int{8, 9}

// The shared run configuration threaded through every build-step
// generator.
//
// A Config is validated once by [NewConfig] and treated as read-only
// afterwards. [Config.Clone] produces an independent copy for runs that
// need a variant context with different prefixes (the development flow's
// runscript phase).
type Config struct {
	Format          recipe.Format // Target recipe format.
	BuildPrefix     string        // Scratch prefix for sources and build directories.
	InstallPrefix   string        // Prefix the projects install into.
	BuildType       BuildType     // CMAKE_BUILD_TYPE for every project.
	SecondBuildType BuildType     // When set, cling and xeus-cling are built a second time with this type.
	KeepBuild       bool          // Retain sources and build directories after installation.
	CompilerThreads int           // Parallel compile jobs. 0 means all available cores.
	LinkerThreads   int           // Parallel link jobs. 0 mirrors CompilerThreads.
	BuildLibcxx     bool          // Build the whole stack against libc++.
	ClangVersion    int           // Version of the clang compiler installed in the base stage.
	GenArgs         string        // Generator invocation arguments, stored in the image for provenance.

	Author  string // Image author name, used in labels.
	Email   string // Image author contact, used in labels.
	Version string // Stack version, used in labels.
}

// Validates a configuration and fills in defaults.
//
// Fails on an unrecognized format, build type, or clang version, and on
// negative thread counts. No partially-valid Config is ever returned.
func NewConfig(c Config) (*Config, error) {
	if c.Format == "" {
		c.Format = recipe.Singularity
	}
	if _, err := recipe.ParseFormat(string(c.Format)); err != nil {
		return nil, err
	}

	if c.BuildPrefix == "" {
		c.BuildPrefix = "/tmp"
	}
	if c.InstallPrefix == "" {
		c.InstallPrefix = "/usr/local"
	}

	if c.BuildType == "" {
		c.BuildType = Release
	}
	if _, err := ParseBuildType(string(c.BuildType)); err != nil {
		return nil, err
	}
	if c.SecondBuildType != "" {
		if _, err := ParseBuildType(string(c.SecondBuildType)); err != nil {
			return nil, err
		}
	}

	if c.ClangVersion == 0 {
		c.ClangVersion = 8
	}
	if !supportedClang(c.ClangVersion) {
		return nil, fmt.Errorf("%w: clang version %d is not supported (supported: %v)",
			ErrConfig, c.ClangVersion, supportedClangVersions)
	}

	if c.CompilerThreads < 0 || c.LinkerThreads < 0 {
		return nil, fmt.Errorf("%w: thread counts must be positive", ErrConfig)
	}

	if c.Author == "" {
		c.Author = "Simeon Ehrig"
	}
	if c.Email == "" {
		c.Email = "s.ehrig@hzdr.de"
	}
	if c.Version == "" {
		c.Version = "2.2"
	}

	return &c, nil
}

func supportedClang(version int) bool {
	for _, v := range supportedClangVersions {
		if v == version {
			return true
		}
	}
	return false
}

// Returns an independent copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// Returns the compile job count as a shell token: the explicit count when
// configured, otherwise the all-cores token.
func (c *Config) ThreadsForCompile() string {
	if c.CompilerThreads < 1 {
		return allCoresToken
	}
	return strconv.Itoa(c.CompilerThreads)
}

// Returns the link job count as a shell token.
//
// An unset link count mirrors the compile setting rather than falling
// back to all cores on its own: link steps are throttled relative to
// compilation, not auto-detected independently.
func (c *Config) ThreadsForLink() string {
	if c.LinkerThreads < 1 {
		return c.ThreadsForCompile()
	}
	return strconv.Itoa(c.LinkerThreads)
}

// Path of the miniconda installation under the install prefix.
func (c *Config) MinicondaPath() string {
	return c.InstallPrefix + "/miniconda3"
}

// One (build directory, install directory, build type) combination for a
// project that may be built more than once.
type BuildVariant struct {
	BuildDir   string
	InstallDir string
	BuildType  BuildType
}

// Returns the cling build variants.
//
// A single build uses a plain build directory and installs directly into
// the install prefix. When a second build type is configured, both the
// build and install directories are namespaced by the lower-cased build
// type so the two variants never collide on disk.
func (c *Config) ClingBuilds() []BuildVariant {
	if c.SecondBuildType == "" {
		return []BuildVariant{{
			BuildDir:   c.BuildPrefix + "/cling_build",
			InstallDir: c.InstallPrefix,
			BuildType:  c.BuildType,
		}}
	}

	variants := make([]BuildVariant, 0, 2)
	for _, bt := range []BuildType{c.BuildType, c.SecondBuildType} {
		suffix := strings.ToLower(string(bt))
		variants = append(variants, BuildVariant{
			BuildDir:   c.BuildPrefix + "/build_" + suffix,
			InstallDir: c.InstallPrefix + "/install_" + suffix,
			BuildType:  bt,
		})
	}
	return variants
}

// Returns the xeus-cling build directories, namespaced like the cling
// variants for dual builds.
func (c *Config) XeusClingBuildDirs() []string {
	if c.SecondBuildType == "" {
		return []string{c.BuildPrefix + "/xeus-cling_build"}
	}
	return []string{
		c.BuildPrefix + "/xeus-cling_build_" + strings.ToLower(string(c.BuildType)),
		c.BuildPrefix + "/xeus-cling_build_" + strings.ToLower(string(c.SecondBuildType)),
	}
}
