package recipe

import (
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{name: "docker", input: "docker", want: Docker},
		{name: "singularity", input: "singularity", want: Singularity},
		{name: "case insensitive", input: "Singularity", want: Singularity},
		{name: "unknown", input: "podman", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("format = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStageHeaderDocker(t *testing.T) {
	s := NewStage("stage0", "nvidia/cuda:8.0-devel-ubuntu16.04")
	got := s.Render(Docker)
	want := "FROM nvidia/cuda:8.0-devel-ubuntu16.04 AS stage0\n"
	if got != want {
		t.Fatalf("render = %q, want %q", got, want)
	}
}

func TestStageAdd(t *testing.T) {
	s := NewStage("", "ubuntu:16.04")
	if s.Len() != 0 {
		t.Fatalf("len = %d, want 0", s.Len())
	}
	s.Add(Shell{"true"}, Comment("done"))
	if s.Len() != 2 {
		t.Fatalf("len = %d, want 2", s.Len())
	}
	if len(s.Instructions()) != 2 {
		t.Fatalf("len(instructions) = %d, want 2", len(s.Instructions()))
	}
}

func TestStageHeaderDockerUnnamed(t *testing.T) {
	s := NewStage("", "ubuntu:16.04")
	got := s.Render(Docker)
	if got != "FROM ubuntu:16.04\n" {
		t.Fatalf("render = %q, want plain FROM line", got)
	}
}

func TestStageHeaderSingularity(t *testing.T) {
	s := NewStage("stage0", "nvidia/cuda:8.0-devel-ubuntu16.04")
	got := s.Render(Singularity)
	want := "BootStrap: docker\nFrom: nvidia/cuda:8.0-devel-ubuntu16.04\nStage: stage0\n"
	if got != want {
		t.Fatalf("render = %q, want %q", got, want)
	}
}

func TestShellDocker(t *testing.T) {
	s := NewStage("", "ubuntu:16.04")
	s.Add(Shell{"apt-get update", "apt-get install -y wget"})

	got := s.Render(Docker)
	want := "RUN apt-get update && \\\n    apt-get install -y wget\n"
	if !strings.Contains(got, want) {
		t.Fatalf("render = %q, want it to contain %q", got, want)
	}
}

func TestShellSingularity(t *testing.T) {
	s := NewStage("", "ubuntu:16.04")
	s.Add(Shell{"apt-get update"})

	got := s.Render(Singularity)
	want := "%post\n    cd /\n    apt-get update\n"
	if !strings.Contains(got, want) {
		t.Fatalf("render = %q, want it to contain %q", got, want)
	}
}

func TestEnvironmentDeterministic(t *testing.T) {
	env := Environment{"ZED": "1", "ALPHA": "2", "MID": "3"}

	var first strings.Builder
	env.docker(&first)
	for i := 0; i < 10; i++ {
		var w strings.Builder
		env.docker(&w)
		if w.String() != first.String() {
			t.Fatalf("render not deterministic: %q vs %q", w.String(), first.String())
		}
	}

	if !strings.HasPrefix(first.String(), "ENV ALPHA=2") {
		t.Fatalf("render = %q, want keys in sorted order", first.String())
	}
}

func TestEnvironmentSingularityDoubleExport(t *testing.T) {
	s := NewStage("", "ubuntu:16.04")
	s.Add(Environment{"PATH": "$PATH:/opt/bin"})

	got := s.Render(Singularity)
	if !strings.Contains(got, "%environment\n    export PATH=$PATH:/opt/bin\n") {
		t.Fatalf("render = %q, want %%environment export", got)
	}
	// The %post export makes the variable visible to later build steps.
	if !strings.Contains(got, "%post\n    export PATH=$PATH:/opt/bin\n") {
		t.Fatalf("render = %q, want %%post export", got)
	}
}

func TestLabel(t *testing.T) {
	s := NewStage("", "ubuntu:16.04")
	s.Add(Label{"maintainer": "Jane Doe"})

	docker := s.Render(Docker)
	if !strings.Contains(docker, `LABEL maintainer="Jane Doe"`) {
		t.Fatalf("docker render = %q, want quoted LABEL", docker)
	}

	sing := s.Render(Singularity)
	if !strings.Contains(sing, "%labels\n    maintainer Jane Doe\n") {
		t.Fatalf("singularity render = %q, want %%labels section", sing)
	}
}

func TestRawPerFormat(t *testing.T) {
	s := NewStage("", "ubuntu:16.04")
	s.Add(Raw{Docker: "EXPOSE 8888"})

	if got := s.Render(Docker); !strings.Contains(got, "EXPOSE 8888\n") {
		t.Fatalf("docker render = %q, want EXPOSE line", got)
	}
	if got := s.Render(Singularity); strings.Contains(got, "EXPOSE") {
		t.Fatalf("singularity render = %q, want no EXPOSE line", got)
	}
}

func TestCopy(t *testing.T) {
	tests := []struct {
		name string
		copy Copy
		f    Format
		want string
	}{
		{
			name: "docker from stage",
			copy: Copy{From: "stage0", Src: "/usr/local", Dest: "/opt/local"},
			f:    Docker,
			want: "COPY --from=stage0 /usr/local /opt/local\n",
		},
		{
			name: "docker from host",
			copy: Copy{Src: "a.txt", Dest: "/a.txt"},
			f:    Docker,
			want: "COPY a.txt /a.txt\n",
		},
		{
			name: "singularity from stage",
			copy: Copy{From: "stage0", Src: "/usr/local", Dest: "/opt/"},
			f:    Singularity,
			want: "%files from stage0\n    /usr/local /opt/\n",
		},
		{
			name: "singularity from host",
			copy: Copy{Src: "/tmp/install", Dest: "/opt/"},
			f:    Singularity,
			want: "%files\n    /tmp/install /opt/\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w strings.Builder
			if tt.f == Docker {
				tt.copy.docker(&w)
			} else {
				tt.copy.singularity(&w)
			}
			if w.String() != tt.want {
				t.Fatalf("render = %q, want %q", w.String(), tt.want)
			}
		})
	}
}

func TestRunscript(t *testing.T) {
	r := Runscript{"export CC=clang-8", "jupyter-lab"}

	var docker strings.Builder
	r.docker(&docker)
	want := "ENTRYPOINT [\"/bin/bash\", \"-c\", \"export CC=clang-8 && jupyter-lab\"]\n"
	if docker.String() != want {
		t.Fatalf("docker render = %q, want %q", docker.String(), want)
	}

	var sing strings.Builder
	r.singularity(&sing)
	if sing.String() != "%runscript\n    export CC=clang-8\n    jupyter-lab\n" {
		t.Fatalf("singularity render = %q, want %%runscript body", sing.String())
	}
}

func TestRenderMultiStage(t *testing.T) {
	s0 := NewStage("stage0", "ubuntu:16.04")
	s0.Add(Shell{"true"})
	s1 := NewStage("stage1", "ubuntu:16.04")

	got := Render(Docker, s0, s1)
	first := strings.Index(got, "FROM ubuntu:16.04 AS stage0")
	second := strings.Index(got, "FROM ubuntu:16.04 AS stage1")
	if first < 0 || second < 0 || second < first {
		t.Fatalf("render = %q, want stage0 before stage1", got)
	}
}

func TestComment(t *testing.T) {
	var w strings.Builder
	Comment("Install Cling").docker(&w)
	if w.String() != "# Install Cling\n" {
		t.Fatalf("render = %q, want comment line", w.String())
	}
}
