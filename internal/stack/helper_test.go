package stack

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCloneCommand(t *testing.T) {
	tests := []struct {
		name  string
		clone clone
		want  string
	}{
		{
			name:  "branch with explicit dir",
			clone: clone{URL: "https://github.com/zeromq/libzmq.git", Branch: "v4.2.5", Path: "/tmp", Dir: "libzmq"},
			want:  "mkdir -p /tmp && cd /tmp && git clone --branch v4.2.5 https://github.com/zeromq/libzmq.git libzmq && cd -",
		},
		{
			name:  "dir derived from url",
			clone: clone{URL: "http://root.cern.ch/git/clang.git", Branch: "cling-patches", Path: "/tmp/llvm/tools"},
			want:  "mkdir -p /tmp/llvm/tools && cd /tmp/llvm/tools && git clone --branch cling-patches http://root.cern.ch/git/clang.git clang && cd -",
		},
		{
			name:  "commit checkout after plain clone",
			clone: clone{URL: "https://github.com/root-project/cling.git", Commit: "595580b", Path: "/tmp/llvm/tools"},
			want: "mkdir -p /tmp/llvm/tools && cd /tmp/llvm/tools && git clone https://github.com/root-project/cling.git cling && cd -" +
				" && cd /tmp/llvm/tools/cling && git checkout 595580b && cd -",
		},
		{
			name:  "extra options",
			clone: clone{URL: "https://github.com/root-project/cling.git", Path: "/tmp", Opts: []string{"--depth=1"}},
			want:  "mkdir -p /tmp && cd /tmp && git clone --depth=1 https://github.com/root-project/cling.git cling && cd -",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.clone.command(); got != tt.want {
				t.Fatalf("command = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRepoBase(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{url: "https://github.com/zeromq/libzmq.git", want: "libzmq"},
		{url: "http://root.cern.ch/git/llvm.git", want: "llvm"},
		{url: "libcxx", want: "libcxx"},
	}

	for _, tt := range tests {
		if got := repoBase(tt.url); got != tt.want {
			t.Fatalf("repoBase(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestCmakeConfigure(t *testing.T) {
	got := cmakeConfigure("/tmp/xtl_build", "/tmp/xtl", "/usr/local", []string{"-DCMAKE_BUILD_TYPE=RELEASE"})
	want := "mkdir -p /tmp/xtl_build && cd /tmp/xtl_build && cmake -DCMAKE_INSTALL_PREFIX=/usr/local -DCMAKE_BUILD_TYPE=RELEASE /tmp/xtl"
	if got != want {
		t.Fatalf("configure = %q, want %q", got, want)
	}
}

func TestCmakeInstall(t *testing.T) {
	got := cmakeInstall("/tmp/xtl_build", "4")
	want := "cmake --build /tmp/xtl_build --target install -- -j4"
	if got != want {
		t.Fatalf("install = %q, want %q", got, want)
	}
}

func TestBuildGitCMake(t *testing.T) {
	cfg := &Config{
		BuildPrefix:   "/tmp",
		InstallPrefix: "/usr/local",
		BuildType:     Release,
	}
	p := GitCMakeProject{
		Name:   "xtl",
		URL:    "https://github.com/QuantStack/xtl.git",
		Branch: "0.6.9",
		Opts:   []string{"-DCMAKE_BUILD_TYPE=RELEASE"},
	}

	commands, cleanup := BuildGitCMake(p, cfg)

	if len(commands) != 3 {
		t.Fatalf("len(commands) = %d, want 3", len(commands))
	}
	if !strings.Contains(commands[0], "git clone --branch 0.6.9") {
		t.Fatalf("commands[0] = %q, want clone step", commands[0])
	}
	if !strings.Contains(commands[1], "-DCMAKE_INSTALL_PREFIX=/usr/local") {
		t.Fatalf("commands[1] = %q, want configure step", commands[1])
	}
	if !strings.HasPrefix(commands[2], "cmake --build /tmp/xtl_build") {
		t.Fatalf("commands[2] = %q, want install step", commands[2])
	}

	// Build directory first, then the source tree.
	want := []string{"/tmp/xtl_build", "/tmp/xtl"}
	if diff := cmp.Diff(want, cleanup); diff != "" {
		t.Fatalf("cleanup mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildGitCMakeKeepBuild(t *testing.T) {
	cfg := &Config{BuildPrefix: "/tmp", InstallPrefix: "/usr/local", KeepBuild: true}
	_, cleanup := BuildGitCMake(GitCMakeProject{Name: "xtl", URL: "https://example.invalid/xtl.git"}, cfg)
	if len(cleanup) != 0 {
		t.Fatalf("cleanup = %v, want empty with keep-build", cleanup)
	}
}

func TestMergeLibcxxFlag(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no flags entry appends one",
			in:   []string{"-DCMAKE_BUILD_TYPE=RELEASE"},
			want: []string{"-DCMAKE_BUILD_TYPE=RELEASE", `-DCMAKE_CXX_FLAGS="-stdlib=libc++"`},
		},
		{
			name: "merges into quoted flags entry",
			in:   []string{`-DCMAKE_CXX_FLAGS="-I /opt/include"`},
			want: []string{`-DCMAKE_CXX_FLAGS="-I /opt/include -stdlib=libc++"`},
		},
		{
			name: "merges into bare flags entry",
			in:   []string{"-DCMAKE_CXX_FLAGS=-O2"},
			want: []string{`-DCMAKE_CXX_FLAGS="-O2 -stdlib=libc++"`},
		},
		{
			name: "idempotent",
			in:   []string{`-DCMAKE_CXX_FLAGS="-I /opt/include -stdlib=libc++"`},
			want: []string{`-DCMAKE_CXX_FLAGS="-I /opt/include -stdlib=libc++"`},
		},
		{
			name: "empty list",
			in:   nil,
			want: []string{`-DCMAKE_CXX_FLAGS="-stdlib=libc++"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mergeLibcxxFlag(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("options mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMergeLibcxxFlagPreservesInput(t *testing.T) {
	in := []string{`-DCMAKE_CXX_FLAGS="-O2"`}
	mergeLibcxxFlag(in)
	if in[0] != `-DCMAKE_CXX_FLAGS="-O2"` {
		t.Fatalf("input modified to %q", in[0])
	}
}

func TestCleanupCommand(t *testing.T) {
	got := cleanupCommand([]string{"/tmp/a", "/tmp/b"})
	if got != "rm -rf /tmp/a /tmp/b" {
		t.Fatalf("cleanup = %q, want rm -rf over both paths", got)
	}
}
