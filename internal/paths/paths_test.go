package paths

import (
	"strings"
	"testing"
)

func TestRecipes(t *testing.T) {
	got := Recipes()
	if !strings.HasSuffix(got, appName) {
		t.Fatalf("recipes dir = %q, want %q suffix", got, appName)
	}
}

func TestImages(t *testing.T) {
	got := Images()
	if !strings.HasSuffix(got, appName) {
		t.Fatalf("images dir = %q, want %q suffix", got, appName)
	}
	if got == Recipes() {
		t.Fatal("images dir must not collide with the recipes dir")
	}
}

func TestCommandFile(t *testing.T) {
	tests := []struct {
		name   string
		recipe string
		want   string
	}{
		{
			name:   "definition file",
			recipe: "/data/xcc.def",
			want:   "/data/xcc_command.txt",
		},
		{
			name:   "dockerfile extension",
			recipe: "/data/xcc.dockerfile",
			want:   "/data/xcc_command.txt",
		},
		{
			name:   "no extension",
			recipe: "/data/Dockerfile",
			want:   "/data/Dockerfile_command.txt",
		},
		{
			name:   "relative path",
			recipe: "xcc.def",
			want:   "xcc_command.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CommandFile(tt.recipe); got != tt.want {
				t.Fatalf("command file = %q, want %q", got, tt.want)
			}
		})
	}
}
