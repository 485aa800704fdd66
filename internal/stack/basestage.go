package stack

import (
	"strconv"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/xcc-stack/xccgen/internal/recipe"
)

// Base image every stage builds on. The stack needs the CUDA toolkit at
// build time, so the devel variant is required.
const BaseImage = "nvidia/cuda:8.0-devel-ubuntu16.04"

// Returns the common base stage: CUDA base image, metadata labels,
// persistent environment, OS packages, locale setup, the clang toolchain
// from the LLVM apt repository, cmake, and ninja.
func BaseStage(name string, cfg *Config) *recipe.Stage {
	stage := recipe.NewStage(name, BaseImage)
	v := strconv.Itoa(cfg.ClangVersion)

	stage.Add(recipe.Label{
		ocispec.AnnotationVersion: cfg.Version,
		ocispec.AnnotationAuthors: cfg.Author + " <" + cfg.Email + ">",
	})

	if cfg.GenArgs != "" {
		stage.Add(recipe.Environment{"XCC_GEN_ARGS": `"` + cfg.GenArgs + `"`})
	}

	// LD_LIBRARY_PATH is not taken over correctly when a docker container
	// is converted to a singularity container.
	stage.Add(
		recipe.Environment{"LD_LIBRARY_PATH": "$LD_LIBRARY_PATH:/usr/local/cuda/lib64"},
		recipe.Environment{"CMAKE_PREFIX_PATH": cfg.InstallPrefix},
	)

	stage.Add(aptInstall(
		"git",
		"python",
		"wget",
		"pkg-config",
		"uuid-dev",
		"gdb",
		"locales",
		"locales-all",
		"unzip",
	))

	// The cling output system misbehaves without a UTF-8 locale.
	stage.Add(recipe.Shell{
		"locale-gen en_US.UTF-8",
		"update-locale LANG=en_US.UTF-8",
	})

	stage.Add(recipe.Comment("Install Clang and tools"))

	// The xenial archive only carries old clang releases; add the LLVM
	// apt repository for the configured version.
	stage.Add(recipe.Shell{
		"wget http://llvm.org/apt/llvm-snapshot.gpg.key",
		"apt-key add llvm-snapshot.gpg.key",
		"rm llvm-snapshot.gpg.key",
		`echo "" >> /etc/apt/sources.list`,
		`echo "deb http://apt.llvm.org/xenial/ llvm-toolchain-xenial-` + v + ` main" >> /etc/apt/sources.list`,
		`echo "deb-src http://apt.llvm.org/xenial/ llvm-toolchain-xenial-` + v + ` main" >> /etc/apt/sources.list`,
	})

	stage.Add(aptInstall("clang-" + v))

	// Make clang the compiler for every project built in this stage.
	stage.Add(recipe.Shell{
		"export CC=clang-" + v,
		"export CXX=clang++-" + v,
	})

	clangExtra := []string{"clang-tidy-" + v, "clang-tools-" + v}
	if cfg.BuildLibcxx {
		clangExtra = append(clangExtra,
			"libc++1-"+v,
			"libc++-"+v+"-dev",
			"libc++abi1-"+v,
			"libc++abi-"+v+"-dev",
		)
	}
	stage.Add(aptInstall(clangExtra...))

	stage.Add(recipe.Comment("Install CMake"))
	stage.Add(recipe.Shell{
		wgetTo("https://github.com/Kitware/CMake/releases/download/v"+cmakeVersion+"/cmake-"+cmakeVersion+"-Linux-x86_64.sh", "/var/tmp"),
		"mkdir -p /usr/local",
		"/bin/sh /var/tmp/cmake-" + cmakeVersion + "-Linux-x86_64.sh --prefix=/usr/local --skip-license",
		"rm -rf /var/tmp/cmake-" + cmakeVersion + "-Linux-x86_64.sh",
	})

	// jupyter lab needs /run/user, which singularity does not create.
	if cfg.Format == recipe.Singularity {
		stage.Add(recipe.Shell{
			"mkdir -p /run/user",
			"chmod 777 /run/user",
		})
	}

	stage.Add(recipe.Comment("Install Ninja"))
	stage.Add(recipe.Shell{
		"cd /opt",
		"wget https://github.com/ninja-build/ninja/releases/download/v" + ninjaVersion + "/ninja-linux.zip",
		"unzip ninja-linux.zip",
		"mv ninja /usr/local/bin/",
		"rm ninja-linux.zip",
		"cd -",
	})

	return stage
}

const (
	cmakeVersion = "3.18.0"
	ninjaVersion = "1.9.0"
)

// Renders an apt package installation as a single shell block, with the
// package lists removed afterwards to keep the layer small.
func aptInstall(packages ...string) recipe.Shell {
	install := "apt-get install -y --no-install-recommends"
	for _, p := range packages {
		install += " " + p
	}
	return recipe.Shell{
		"apt-get update -y",
		install,
		"rm -rf /var/lib/apt/lists/*",
	}
}
