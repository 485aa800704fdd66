package stack

import (
	"fmt"
)

// Default cling source location. The Generator exposes these as settable
// fields so the CLI can point the build at a fork, branch, or commit.
const (
	DefaultClingURL  = "https://github.com/root-project/cling.git"
	DefaultClingHash = "595580b"
)

// Source selection for the cling build.
type ClingSource struct {
	URL     string
	Branch  string // Mutually exclusive with Commit.
	Commit  string // Mutually exclusive with Branch.
	Shallow bool   // Clone the cling repository with --depth=1.
}

// Generates the cling build: a multi-repository checkout (llvm with the
// cling patches, clang and cling under llvm/tools, plus libc++ and
// libc++abi under llvm/projects when the stack is built against libc++)
// followed by one configure-build-install cycle per build variant.
//
// The configure step uses Ninja with separate compile and link job pools:
// linking llvm is memory-heavy and must be throttled independently of the
// compile parallelism even though both run under one ninja invocation.
// After each install, the variant's bundled Jupyter kernel is registered
// into the package manager at minicondaPath via an editable pip install,
// which is why the miniconda bootstrap must already be in place.
//
// Returns the command list, the install directory per variant, and the
// cleanup paths: each variant's build directory plus the shared llvm
// source tree exactly once.
func BuildCling(src ClingSource, minicondaPath string, cfg *Config) (commands, installDirs, cleanup []string, err error) {
	if src.Branch != "" && src.Commit != "" {
		return nil, nil, nil, fmt.Errorf("%w: cling branch and commit hash cannot be set at the same time", ErrConfig)
	}
	if src.URL == "" {
		src.URL = DefaultClingURL
	}

	llvmDir := cfg.BuildPrefix + "/llvm"

	commands = append(commands,
		clone{
			URL:    "http://root.cern.ch/git/llvm.git",
			Branch: "cling-patches",
			Path:   cfg.BuildPrefix,
			Dir:    "llvm",
		}.command(),
		clone{
			URL:    "http://root.cern.ch/git/clang.git",
			Branch: "cling-patches",
			Path:   llvmDir + "/tools",
		}.command(),
	)

	clingClone := clone{
		URL:    src.URL,
		Branch: src.Branch,
		Commit: src.Commit,
		Path:   llvmDir + "/tools",
	}
	if src.Shallow {
		clingClone.Opts = []string{"--depth=1"}
	}
	commands = append(commands, clingClone.command())

	// CMake picks the projects under llvm/projects up automatically.
	if cfg.BuildLibcxx {
		commands = append(commands,
			clone{
				URL:    "https://github.com/llvm-mirror/libcxx",
				Branch: "release_50",
				Path:   llvmDir + "/projects",
			}.command(),
			clone{
				URL:    "https://github.com/llvm-mirror/libcxxabi",
				Branch: "release_50",
				Path:   llvmDir + "/projects",
			}.command(),
		)
	}

	for _, build := range cfg.ClingBuilds() {
		opts := []string{
			"-G Ninja",
			"-DCMAKE_BUILD_TYPE=" + string(build.BuildType),
			`-DLLVM_ABI_BREAKING_CHECKS="FORCE_OFF"`,
			"-DCMAKE_LINKER=/usr/bin/gold",
			"-DLLVM_ENABLE_RTTI=ON",
			fmt.Sprintf("'-DCMAKE_JOB_POOLS:STRING=compile=%s;link=%s'",
				cfg.ThreadsForCompile(), cfg.ThreadsForLink()),
			"'-DCMAKE_JOB_POOL_COMPILE:STRING=compile'",
			"'-DCMAKE_JOB_POOL_LINK:STRING=link'",
			`-DLLVM_TARGETS_TO_BUILD="host;NVPTX"`,
			"-DCMAKE_EXPORT_COMPILE_COMMANDS=ON",
		}
		if cfg.BuildLibcxx {
			opts = append(opts, "-DLLVM_ENABLE_LIBCXX=ON")
		}

		commands = append(commands,
			cmakeConfigure(build.BuildDir, llvmDir, build.InstallDir, opts),
			// The job pools govern the parallelism, not -j.
			"cmake --build "+build.BuildDir+" --target install",
		)

		// Register the bundled Jupyter kernel against this variant's
		// install. The PATH juggling makes the freshly-installed cling
		// discoverable for the kernel's setup only.
		commands = append(commands,
			"PATH_bak=$PATH",
			"PATH=$PATH:"+build.InstallDir+"/bin",
			"cd "+build.InstallDir+"/share/cling/Jupyter/kernel",
			minicondaPath+"/bin/pip install -e .",
			"PATH=$PATH_bak",
			"cd -",
		)

		installDirs = append(installDirs, build.InstallDir)
	}

	if !cfg.KeepBuild {
		for _, build := range cfg.ClingBuilds() {
			cleanup = append(cleanup, build.BuildDir)
		}
		cleanup = append(cleanup, llvmDir)
	}

	return commands, installDirs, cleanup, nil
}
