package stack

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/xcc-stack/xccgen/internal/recipe"
)

// Filesystem roots the scratch and multi-stage install prefixes are
// allowed under. /tmp is bind-mounted by singularity at build time, /opt
// stays inside the image.
var sanctionedPrefixRoots = []string{"/tmp", "/opt"}

// Reports whether the path lives under one of the sanctioned roots.
func HasSanctionedRoot(p string) bool {
	for _, root := range sanctionedPrefixRoots {
		if strings.HasPrefix(p, root) {
			return true
		}
	}
	return false
}

// Drives recipe generation for the whole stack.
//
// The Generator owns the ordered project registry and dispatches each
// entry to its build-step generator, composing the results into recipe
// stages. The cling source fields are settable so the CLI can point the
// build at a fork; branch and commit hash are mutually exclusive.
type Generator struct {
	Config      *Config
	ClingURL    string
	ClingBranch string
	ClingHash   string

	registry []Project
}

// Creates a generator with the default project catalog and cling source.
func NewGenerator(cfg *Config) *Generator {
	return &Generator{
		Config:    cfg,
		ClingURL:  DefaultClingURL,
		ClingHash: DefaultClingHash,
		registry:  defaultRegistry(cfg),
	}
}

// Returns the ordered project registry.
func (g *Generator) Projects() []Project {
	return g.registry
}

// Lists the registry, one "kind: name" line per project.
func (g *Generator) String() string {
	var b strings.Builder
	for _, p := range g.registry {
		switch p.(type) {
		case GitCMakeProject:
			b.WriteString("git+cmake: ")
		case ClingProject:
			b.WriteString("cling: ")
		case XeusClingProject:
			b.WriteString("xeus-cling: ")
		case OpenSSLProject:
			b.WriteString("openssl: ")
		case MinicondaProject:
			b.WriteString("miniconda: ")
		case JupyterKernelProject:
			b.WriteString("jupyter-kernel: ")
		}
		b.WriteString(p.ProjectName() + "\n")
	}
	return b.String()
}

func (g *Generator) clingSource(shallow bool) ClingSource {
	return ClingSource{
		URL:     g.ClingURL,
		Branch:  g.ClingBranch,
		Commit:  g.ClingHash,
		Shallow: shallow,
	}
}

// Generates the single-stage release recipe: base stage, every project
// in registry order, one consolidated cleanup step, and the notebook
// port declaration.
func (g *Generator) ReleaseSingleStage() (*recipe.Stage, error) {
	stage := BaseStage("stage", g.Config)

	cleanup, err := g.projectBuilds(stage, g.Config, nil)
	if err != nil {
		return nil, err
	}

	if !g.Config.KeepBuild && len(cleanup) > 0 {
		stage.Add(recipe.Shell{cleanupCommand(cleanup)})
	}
	stage.Add(recipe.Raw{Docker: "EXPOSE 8888"})

	return stage, nil
}

// Generates the development recipe.
//
// The image bakes in only the projects that stay fixed during
// development. The four frequently-changed projects (miniconda, cling,
// xeus-cling, and the kernel registrations) are deferred into the
// container's runscript, which downloads and builds them into
// projectPath on the host when the container is run. Iterating on those
// projects therefore never requires rebuilding the image.
//
// dualBuildType optionally requests a second cling/xeus-cling build
// variant in the runscript phase.
func (g *Generator) DevelStage(projectPath string, dualBuildType BuildType) (*recipe.Stage, error) {
	if projectPath == "" {
		return nil, fmt.Errorf("%w: project path must be set for the development stage", ErrConfig)
	}
	if dualBuildType != "" {
		if _, err := ParseBuildType(string(dualBuildType)); err != nil {
			return nil, err
		}
	}

	stage := BaseStage("stage0", g.Config)
	stage.Add(recipe.Environment{"XCC_PROJECT_PATH": projectPath})

	cleanup, err := g.projectBuilds(stage, g.Config, []string{
		"cling", "xeus-cling", "miniconda3", "jupyter_kernel",
	})
	if err != nil {
		return nil, err
	}

	if !g.Config.KeepBuild && len(cleanup) > 0 {
		stage.Add(recipe.Shell{cleanupCommand(cleanup)})
	}
	stage.Add(recipe.Raw{Docker: "EXPOSE 8888"})

	// Variant context for the runscript phase: everything lives under the
	// user-supplied project path, and builds are kept for iteration.
	rc := g.Config.Clone()
	rc.BuildPrefix = projectPath
	rc.InstallPrefix = projectPath
	rc.SecondBuildType = dualBuildType
	rc.KeepBuild = true

	v := strconv.Itoa(rc.ClangVersion)
	runscript := []string{
		"export CC=clang-" + v,
		"export CXX=clang++-" + v,
	}

	minicondaCmds, env := BuildMiniconda(rc)
	stage.Add(recipe.Environment(env))
	runscript = append(runscript, minicondaCmds...)

	// A single development build installs into projectPath/install to
	// keep the project root tidy; a dual build gets its two install_<type>
	// directories namespaced automatically.
	clingCfg := rc.Clone()
	if dualBuildType == "" {
		clingCfg.InstallPrefix = projectPath + "/install"
	}

	clingCmds, clingInstallDirs, _, err := BuildCling(g.clingSource(false), rc.MinicondaPath(), clingCfg)
	if err != nil {
		return nil, err
	}
	runscript = append(runscript, clingCmds...)

	xc, err := g.xeusClingProject()
	if err != nil {
		return nil, err
	}
	xeusCmds, _, err := BuildXeusCling(xc.URL, xc.Branch, rc.MinicondaPath(), clingInstallDirs, rc)
	if err != nil {
		return nil, err
	}
	runscript = append(runscript, xeusCmds...)

	kernelCmds, _ := BuildDevJupyterKernels(projectPath+"/kernels", projectPath, rc)
	runscript = append(runscript, kernelCmds...)

	stage.Add(recipe.Runscript(runscript))

	return stage, nil
}

// Generates the experimental two-stage release recipe.
//
// The first stage builds everything except the kernel registrations. The
// second stage copies only the install artifacts and the miniconda tree
// into a fresh base image, merges the installs into /usr/local, and
// registers the kernels there. The install prefix must live under a
// sanctioned root so the copy source is reachable; any other prefix is
// rejected before generation begins.
func (g *Generator) ReleaseMultiStage() ([]*recipe.Stage, error) {
	cfg := g.Config
	if !HasSanctionedRoot(cfg.InstallPrefix) {
		return nil, fmt.Errorf("%w: multi-stage install prefix %q must start with one of %v",
			ErrConfig, cfg.InstallPrefix, sanctionedPrefixRoots)
	}

	stage0 := BaseStage("stage0", cfg)
	// Stage0 scratch is discarded with the stage itself; no cleanup step.
	if _, err := g.projectBuilds(stage0, cfg, []string{"jupyter_kernel"}); err != nil {
		return nil, err
	}

	stage1 := recipe.NewStage("stage1", BaseImage)
	stage1.Add(recipe.Environment{"LD_LIBRARY_PATH": "$LD_LIBRARY_PATH:/usr/local/cuda/lib64"})
	stage1.Add(aptInstall("locales", "locales-all"))
	stage1.Add(recipe.Shell{
		"locale-gen en_US.UTF-8",
		"update-locale LANG=en_US.UTF-8",
	})

	// The copy semantics depend on the container format: singularity
	// copies a directory INTO the destination, docker copies its content
	// ONTO the destination. Singularity also bind-mounts /tmp from the
	// host, in which case the installs are copied from there instead of
	// from stage0.
	mergeDir := "/opt/" + path.Base(cfg.InstallPrefix)
	if cfg.Format == recipe.Singularity {
		if strings.HasPrefix(cfg.InstallPrefix, "/tmp") {
			stage1.Add(recipe.Copy{Src: cfg.InstallPrefix, Dest: "/opt/"})
		} else {
			stage1.Add(recipe.Copy{From: "stage0", Src: cfg.InstallPrefix, Dest: "/opt/"})
		}
	} else {
		stage1.Add(recipe.Copy{From: "stage0", Src: cfg.InstallPrefix, Dest: mergeDir})
	}

	stage1.Add(recipe.Shell{
		"cp -rl " + mergeDir + "/* /usr/local/",
		"rm -r " + mergeDir + "/",
	})

	if cfg.Format == recipe.Singularity {
		stage1.Add(recipe.Shell{
			"mkdir -p /run/user",
			"chmod 777 /run/user",
		})
		stage1.Add(recipe.Copy{From: "stage0", Src: cfg.MinicondaPath(), Dest: "/opt/"})
	} else {
		stage1.Add(recipe.Copy{From: "stage0", Src: cfg.MinicondaPath(), Dest: "/opt/miniconda3"})
	}
	stage1.Add(recipe.Environment{"PATH": "$PATH:/opt/miniconda3/bin/"})

	kernelCmds, kernelCleanup := BuildRelJupyterKernels(cfg.BuildPrefix, "/opt", cfg)
	stage1.Add(recipe.Shell(kernelCmds))

	if !cfg.KeepBuild {
		stage1.Add(recipe.Shell{cleanupCommand(append(kernelCleanup, cfg.InstallPrefix))})
	}
	stage1.Add(recipe.Raw{Docker: "EXPOSE 8888"})

	return []*recipe.Stage{stage0, stage1}, nil
}

// Walks the registry in order and appends each project's build
// instructions to the stage, dispatching on the project kind and
// honoring the exclude-by-name filter. Returns the merged cleanup paths
// in generation order.
//
// An unhandled project kind halts generation: the registry is internal,
// so that case indicates an incompletely ported catalog and must never
// be skipped silently.
func (g *Generator) projectBuilds(stage *recipe.Stage, cfg *Config, exclude []string) ([]string, error) {
	var cleanup []string

	clingInstallDirs := make([]string, 0, 2)
	for _, build := range cfg.ClingBuilds() {
		clingInstallDirs = append(clingInstallDirs, build.InstallDir)
	}

	for _, p := range g.registry {
		if excluded(p.ProjectName(), exclude) {
			continue
		}

		switch p := p.(type) {
		case GitCMakeProject:
			commands, cl := BuildGitCMake(p, cfg)
			stage.Add(recipe.Shell(commands))
			cleanup = append(cleanup, cl...)

		case ClingProject:
			commands, _, cl, err := BuildCling(g.clingSource(true), cfg.MinicondaPath(), cfg)
			if err != nil {
				return nil, err
			}
			stage.Add(recipe.Comment("Install Cling"), recipe.Shell(commands))
			cleanup = append(cleanup, cl...)

		case XeusClingProject:
			commands, cl, err := BuildXeusCling(p.URL, p.Branch, cfg.MinicondaPath(), clingInstallDirs, cfg)
			if err != nil {
				return nil, err
			}
			stage.Add(recipe.Comment("Install xeus-cling"), recipe.Shell(commands))
			cleanup = append(cleanup, cl...)

		case OpenSSLProject:
			commands, env, cl := BuildOpenSSL(p, cfg)
			stage.Add(recipe.Comment("Install OpenSSL"), recipe.Shell(commands), recipe.Environment(env))
			cleanup = append(cleanup, cl...)

		case MinicondaProject:
			commands, env := BuildMiniconda(cfg)
			stage.Add(recipe.Comment("Install Miniconda 3"), recipe.Shell(commands), recipe.Environment(env))

		case JupyterKernelProject:
			commands, cl := BuildRelJupyterKernels(cfg.BuildPrefix, cfg.InstallPrefix, cfg)
			stage.Add(recipe.Comment("Register Jupyter kernels"), recipe.Shell(commands))
			cleanup = append(cleanup, cl...)

		default:
			return nil, fmt.Errorf("%w: %T", ErrUnknownProject, p)
		}
	}

	return cleanup, nil
}

// Returns the xeus-cling registry entry.
func (g *Generator) xeusClingProject() (XeusClingProject, error) {
	for _, p := range g.registry {
		if xc, ok := p.(XeusClingProject); ok {
			return xc, nil
		}
	}
	return XeusClingProject{}, fmt.Errorf("%w: registry has no xeus-cling entry", ErrUnknownProject)
}

func excluded(name string, exclude []string) bool {
	for _, e := range exclude {
		if e == name {
			return true
		}
	}
	return false
}
