package stack

import (
	"fmt"
)

// Generates the xeus-cling build: one clone, then one configure-build
// cycle per build variant against the index-aligned cling install path.
//
// xeus-cling discovers the cling toolchain through an llvm-config lookup
// on PATH, so each cycle prepends the matching cling bin directory onto a
// backed-up PATH and the original PATH is restored afterwards; dual
// builds must not cross-contaminate which toolchain is found. The library
// installs into the miniconda tree so the Jupyter server can load it.
//
// The number of cling install paths must match the number of build
// variants; a mismatch is rejected before any command is generated.
func BuildXeusCling(url, branch, minicondaPath string, clingPaths []string, cfg *Config) (commands, cleanup []string, err error) {
	buildDirs := cfg.XeusClingBuildDirs()
	if len(clingPaths) != len(buildDirs) {
		return nil, nil, fmt.Errorf("%w: %d cling install paths for %d xeus-cling builds",
			ErrConfig, len(clingPaths), len(buildDirs))
	}

	sourceDir := cfg.BuildPrefix + "/xeus-cling"

	commands = append(commands,
		clone{URL: url, Branch: branch, Path: cfg.BuildPrefix, Dir: "xeus-cling"}.command(),
		"bPATH=$PATH",
	)

	buildTypes := []BuildType{cfg.BuildType}
	if cfg.SecondBuildType != "" {
		buildTypes = append(buildTypes, cfg.SecondBuildType)
	}

	for i, buildDir := range buildDirs {
		commands = append(commands, "PATH=$bPATH:"+clingPaths[i]+"/bin")

		opts := []string{
			"-DCMAKE_INSTALL_LIBDIR=" + minicondaPath + "/lib",
			"-DCMAKE_LINKER=/usr/bin/gold",
			"-DCMAKE_BUILD_TYPE=" + string(buildTypes[i]),
			"-DDISABLE_ARCH_NATIVE=ON",
			"-DCMAKE_EXPORT_COMPILE_COMMANDS=ON",
			"-DCMAKE_PREFIX_PATH=" + clingPaths[i],
			`-DCMAKE_CXX_FLAGS="-I ` + clingPaths[i] + `/include"`,
		}
		if cfg.BuildLibcxx {
			opts = mergeLibcxxFlag(opts)
		}

		commands = append(commands,
			cmakeConfigure(buildDir, sourceDir, minicondaPath, opts),
			cmakeInstall(buildDir, cfg.ThreadsForCompile()),
		)
	}

	commands = append(commands, "PATH=$bPATH")

	if !cfg.KeepBuild {
		cleanup = append(cleanup, buildDirs...)
		cleanup = append(cleanup, sourceDir)
	}

	return commands, cleanup, nil
}
