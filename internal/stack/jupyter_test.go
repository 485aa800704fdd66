package stack

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestXeusClingKernel(t *testing.T) {
	spec := XeusClingKernel("/opt", 14)

	if spec.DisplayName != "Xeus-C++14-CUDA" {
		t.Fatalf("display name = %q, want Xeus-C++14-CUDA", spec.DisplayName)
	}
	if spec.Language != "C++14" {
		t.Fatalf("language = %q, want C++14", spec.Language)
	}
	wantArgv := []string{"/opt/miniconda3/bin/xcpp", "-f", "{connection_file}", "-std=c++14", "-xcuda"}
	if diff := cmp.Diff(wantArgv, spec.Argv); diff != "" {
		t.Fatalf("argv mismatch (-want +got):\n%s", diff)
	}
	if spec.Env != nil {
		t.Fatalf("env = %v, want nil", spec.Env)
	}
}

func TestClingKernel(t *testing.T) {
	plain := ClingKernel(17, false)
	if plain.DisplayName != "Cling-C++17" {
		t.Fatalf("display name = %q, want Cling-C++17", plain.DisplayName)
	}
	if plain.Env != nil {
		t.Fatalf("plain kernel env = %v, want nil", plain.Env)
	}

	cuda := ClingKernel(17, true)
	if cuda.DisplayName != "Cling-C++17-CUDA" {
		t.Fatalf("display name = %q, want Cling-C++17-CUDA", cuda.DisplayName)
	}
	if cuda.Env["CLING_OPTS"] != "-xcuda" {
		t.Fatalf("CLING_OPTS = %q, want -xcuda", cuda.Env["CLING_OPTS"])
	}
	// Both flavors launch through the cling project's own kernel.
	if cuda.Argv[0] != "jupyter-cling-kernel" {
		t.Fatalf("argv[0] = %q, want jupyter-cling-kernel", cuda.Argv[0])
	}
	if cuda.Language != "C++" {
		t.Fatalf("language = %q, want C++", cuda.Language)
	}
}

func TestKernelSpecOmitsEmptyEnv(t *testing.T) {
	doc, err := json.Marshal(ClingKernel(11, false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(doc), `"env"`) {
		t.Fatalf("json = %s, want no env key", doc)
	}
}

func TestKernelTargets(t *testing.T) {
	targets := kernelTargets("/tmp", "/opt")

	// Three flavors, three language standards each.
	if len(targets) != 9 {
		t.Fatalf("len(targets) = %d, want 9", len(targets))
	}

	var paths []string
	for _, tg := range targets {
		paths = append(paths, tg.path)
	}
	want := []string{
		"/tmp/xeus-cling-cpp11-cuda",
		"/tmp/xeus-cling-cpp14-cuda",
		"/tmp/xeus-cling-cpp17-cuda",
		"/tmp/cling-cpp11",
		"/tmp/cling-cpp14",
		"/tmp/cling-cpp17",
		"/tmp/cling-cpp11-cuda",
		"/tmp/cling-cpp14-cuda",
		"/tmp/cling-cpp17-cuda",
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildRelJupyterKernels(t *testing.T) {
	cfg := &Config{BuildPrefix: "/tmp", InstallPrefix: "/usr/local", BuildType: Release}
	commands, cleanup := BuildRelJupyterKernels("/tmp", "/opt", cfg)

	// Three commands per registration block.
	if len(commands) != 27 {
		t.Fatalf("len(commands) = %d, want 27", len(commands))
	}
	if len(cleanup) != 9 {
		t.Fatalf("len(cleanup) = %d, want 9", len(cleanup))
	}

	if commands[0] != "mkdir -p /tmp/xeus-cling-cpp11-cuda" {
		t.Fatalf("commands[0] = %q, want mkdir", commands[0])
	}
	if !strings.HasPrefix(commands[1], "echo '{") || !strings.HasSuffix(commands[1], "' > /tmp/xeus-cling-cpp11-cuda/kernel.json") {
		t.Fatalf("commands[1] = %q, want kernel.json write", commands[1])
	}
	if commands[2] != "jupyter-kernelspec install /tmp/xeus-cling-cpp11-cuda" {
		t.Fatalf("commands[2] = %q, want kernelspec install", commands[2])
	}

	var spec KernelSpec
	doc := commands[1][len("echo '") : strings.Index(commands[1], "' > ")]
	if err := json.Unmarshal([]byte(doc), &spec); err != nil {
		t.Fatalf("kernel.json invalid: %v", err)
	}
	if spec.Argv[0] != "/opt/miniconda3/bin/xcpp" {
		t.Fatalf("argv[0] = %q, want xcpp under /opt", spec.Argv[0])
	}
}

func TestBuildRelJupyterKernelsKeepBuild(t *testing.T) {
	cfg := &Config{BuildPrefix: "/tmp", InstallPrefix: "/usr/local", KeepBuild: true}
	_, cleanup := BuildRelJupyterKernels("/tmp", "/opt", cfg)
	if len(cleanup) != 0 {
		t.Fatalf("cleanup = %v, want empty with keep-build", cleanup)
	}
}

func TestBuildDevJupyterKernels(t *testing.T) {
	cfg := &Config{BuildPrefix: "/opt/project", InstallPrefix: "/opt/project", BuildType: Release, KeepBuild: true}
	commands, _ := BuildDevJupyterKernels("/opt/project/kernels", "/opt/project", cfg)

	// Shared directory first, then three commands per block.
	if len(commands) != 28 {
		t.Fatalf("len(commands) = %d, want 28", len(commands))
	}
	if commands[0] != "mkdir -p /opt/project/miniconda3/share/jupyter/kernels/" {
		t.Fatalf("commands[0] = %q, want shared kernel dir", commands[0])
	}
	if commands[3] != "cp -r /opt/project/kernels/xeus-cling-cpp11-cuda /opt/project/miniconda3/share/jupyter/kernels/" {
		t.Fatalf("commands[3] = %q, want copy registration", commands[3])
	}
}
