package singularity

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		name     string
		image    string
		def      string
		fakeroot bool
		want     []string
	}{
		{
			name:     "fakeroot",
			image:    "xcc.sif",
			def:      "xcc.def",
			fakeroot: true,
			want:     []string{"build", "--fakeroot", "xcc.sif", "xcc.def"},
		},
		{
			name:  "plain",
			image: "xcc.sif",
			def:   "xcc.def",
			want:  []string{"build", "xcc.sif", "xcc.def"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildArgs(tt.image, tt.def, tt.fakeroot)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPushArgs(t *testing.T) {
	got := pushArgs("xcc.sif", "library://user/default/xcc:2.2")
	want := []string{"push", "xcc.sif", "library://user/default/xcc:2.2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}
