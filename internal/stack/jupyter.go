package stack

import (
	"encoding/json"
	"strconv"
)

// C++ language standards the kernels are generated for.
var kernelStandards = []int{11, 14, 17}

// A Jupyter kernel descriptor, materialized as kernel.json.
type KernelSpec struct {
	DisplayName string            `json:"display_name"`
	Argv        []string          `json:"argv"`
	Language    string            `json:"language"`
	Env         map[string]string `json:"env,omitempty"`
}

// Returns the descriptor for the xeus-cling kernel with CUDA support.
func XeusClingKernel(minicondaPrefix string, std int) KernelSpec {
	s := strconv.Itoa(std)
	return KernelSpec{
		DisplayName: "Xeus-C++" + s + "-CUDA",
		Argv: []string{
			minicondaPrefix + "/miniconda3/bin/xcpp",
			"-f",
			"{connection_file}",
			"-std=c++" + s,
			"-xcuda",
		},
		Language: "C++" + s,
	}
}

// Returns the descriptor for the cling project's own kernel, optionally
// with CUDA support. The CUDA mode is selected through an environment
// override, which must be omitted for the plain C++ flavor.
func ClingKernel(std int, cuda bool) KernelSpec {
	s := strconv.Itoa(std)
	spec := KernelSpec{
		DisplayName: "Cling-C++" + s,
		Argv: []string{
			"jupyter-cling-kernel",
			"-f",
			"{connection_file}",
			"--std=c++" + s,
		},
		Language: "C++",
	}
	if cuda {
		spec.DisplayName += "-CUDA"
		spec.Env = map[string]string{"CLING_OPTS": "-xcuda"}
	}
	return spec
}

// One kernel registration target: the scratch directory the descriptor
// is written to and the descriptor itself.
type kernelTarget struct {
	path string
	spec KernelSpec
}

// Returns the full set of kernel targets: every language standard for
// every flavor (xeus-cling with CUDA, bare cling, cling with CUDA).
func kernelTargets(buildPrefix, minicondaPrefix string) []kernelTarget {
	var targets []kernelTarget

	for _, std := range kernelStandards {
		targets = append(targets, kernelTarget{
			path: buildPrefix + "/xeus-cling-cpp" + strconv.Itoa(std) + "-cuda",
			spec: XeusClingKernel(minicondaPrefix, std),
		})
	}
	for _, std := range kernelStandards {
		targets = append(targets, kernelTarget{
			path: buildPrefix + "/cling-cpp" + strconv.Itoa(std),
			spec: ClingKernel(std, false),
		})
	}
	for _, std := range kernelStandards {
		targets = append(targets, kernelTarget{
			path: buildPrefix + "/cling-cpp" + strconv.Itoa(std) + "-cuda",
			spec: ClingKernel(std, true),
		})
	}

	return targets
}

// Renders the commands that materialize one kernel descriptor: create
// the directory, write kernel.json, then register it with the given
// command.
func (t kernelTarget) commands(register string) []string {
	doc, _ := json.Marshal(t.spec)
	return []string{
		"mkdir -p " + t.path,
		"echo '" + string(doc) + "' > " + t.path + "/kernel.json",
		register,
	}
}

// Generates the release-flow kernel registrations: each descriptor is
// installed system-wide via jupyter-kernelspec. The registration blocks
// are independent of each other.
func BuildRelJupyterKernels(buildPrefix, minicondaPrefix string, cfg *Config) (commands, cleanup []string) {
	for _, t := range kernelTargets(buildPrefix, minicondaPrefix) {
		commands = append(commands, t.commands("jupyter-kernelspec install "+t.path)...)
		if !cfg.KeepBuild {
			cleanup = append(cleanup, t.path)
		}
	}
	return commands, cleanup
}

// Generates the development-flow kernel registrations: the descriptors
// are copied directly into the package manager's shared kernel
// directory. The copy keeps the registration working when the package
// manager lives outside the image, where invoking the installer
// subcommand across the boundary is unreliable.
func BuildDevJupyterKernels(buildPrefix, minicondaPrefix string, cfg *Config) (commands, cleanup []string) {
	kernelDir := minicondaPrefix + "/miniconda3/share/jupyter/kernels/"

	commands = append(commands, "mkdir -p "+kernelDir)
	for _, t := range kernelTargets(buildPrefix, minicondaPrefix) {
		commands = append(commands, t.commands("cp -r "+t.path+" "+kernelDir)...)
		if !cfg.KeepBuild {
			cleanup = append(cleanup, t.path)
		}
	}
	return commands, cleanup
}
