package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/opencontainers/go-digest"

	"github.com/xcc-stack/xccgen/internal/paths"
	"github.com/xcc-stack/xccgen/internal/recipe"
	"github.com/xcc-stack/xccgen/internal/stack"
)

// Flags shared by the recipe-generating subcommands.
type generateFlags struct {
	Container       string `help:"Generate a recipe for docker or singularity." enum:"docker,singularity" default:"singularity" env:"XCCGEN_CONTAINER"`
	BuildPrefix     string `help:"Source and build prefix of all projects. Must start with /tmp or /opt." default:"/tmp" env:"XCCGEN_BUILD_PREFIX"`
	InstallPrefix   string `help:"Prefix the projects install into." default:"/usr/local" env:"XCCGEN_INSTALL_PREFIX"`
	BuildType       string `help:"CMAKE_BUILD_TYPE for every project." enum:"DEBUG,RELEASE,RELWITHDEBINFO,MINSIZEREL" default:"RELEASE"`
	KeepBuild       bool   `help:"Keep sources and build directories after installation."`
	Jobs            int    `short:"j" help:"Number of build threads (default: all available cores)." placeholder:"N"`
	LinkerJobs      int    `short:"l" help:"Number of linker threads for the cling build (default: same as -j)." placeholder:"N"`
	ClangVersion    int    `help:"Version of the clang compiler used for the stack (supported: 8, 9)." default:"8"`
	BuildLibcxx     bool   `help:"Build the whole stack with libc++, including the libc++ and libc++abi llvm projects."`
	Out             string `short:"o" help:"Write the recipe to this file (default: stdout)." placeholder:"PATH" type:"path"`
	StoreGenCommand bool   `help:"Save the generator invocation beside the recipe." default:"true" negatable:""`

	ClingURL    string `help:"Custom cling git url." placeholder:"URL"`
	ClingBranch string `help:"Cling branch, only with --cling-url. Clears the pinned commit hash."`
	ClingHash   string `help:"Cling commit hash, only with --cling-url. Mutually exclusive with --cling-branch."`
}

// Builds the validated run configuration from the flags.
func (f *generateFlags) config(secondBuildType string) (*stack.Config, error) {
	if f.Jobs < 0 || f.LinkerJobs < 0 {
		return nil, fmt.Errorf("%w: -j and -l have to be greater than 0", stack.ErrConfig)
	}
	if !stack.HasSanctionedRoot(f.BuildPrefix) {
		return nil, fmt.Errorf("%w: --build-prefix has to start with /tmp or /opt", stack.ErrConfig)
	}

	return stack.NewConfig(stack.Config{
		Format:          recipe.Format(f.Container),
		BuildPrefix:     f.BuildPrefix,
		InstallPrefix:   f.InstallPrefix,
		BuildType:       stack.BuildType(f.BuildType),
		SecondBuildType: stack.BuildType(secondBuildType),
		KeepBuild:       f.KeepBuild,
		CompilerThreads: f.Jobs,
		LinkerThreads:   f.LinkerJobs,
		BuildLibcxx:     f.BuildLibcxx,
		ClangVersion:    f.ClangVersion,
		GenArgs:         f.genArgs(),
	})
}

// Creates a generator with the cling source overrides applied.
func (f *generateFlags) generator(cfg *stack.Config) (*stack.Generator, error) {
	g := stack.NewGenerator(cfg)

	if f.ClingURL != "" {
		if f.ClingBranch != "" && f.ClingHash != "" {
			return nil, fmt.Errorf("%w: --cling-branch and --cling-hash cannot be used at the same time", stack.ErrConfig)
		}
		g.ClingURL = f.ClingURL
		g.ClingBranch = f.ClingBranch
		g.ClingHash = f.ClingHash
		if f.ClingBranch != "" {
			g.ClingHash = ""
		}
	}

	slog.Debug("project registry\n" + g.String())

	return g, nil
}

// Returns the exact invocation for the provenance side channel, or empty
// when provenance is disabled.
func (f *generateFlags) genArgs() string {
	if !f.StoreGenCommand {
		return ""
	}
	return strings.Join(os.Args, " ")
}

// Writes the rendered recipe to the output file or stdout, plus the
// provenance file when enabled.
func (f *generateFlags) writeRecipe(text string) error {
	sum := digest.FromString(text)
	slog.Info("recipe generated", "bytes", len(text), "digest", sum)

	if f.Out == "" {
		fmt.Println(text)
		return nil
	}

	if err := os.WriteFile(f.Out, []byte(text), paths.DefaultFileMode); err != nil {
		return err
	}
	slog.Info("recipe written", "path", f.Out)

	if args := f.genArgs(); args != "" {
		commandFile := paths.CommandFile(f.Out)
		record := args + "\n" + sum.String() + "\n"
		if err := os.WriteFile(commandFile, []byte(record), paths.DefaultFileMode); err != nil {
			return err
		}
		slog.Debug("generator command stored", "path", commandFile)
	}

	return nil
}
