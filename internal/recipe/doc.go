// Package recipe models container build recipes as ordered instruction
// lists and renders them to Dockerfile or Singularity definition text.
//
// A recipe is one or more stages. Each stage starts from a base image and
// carries an append-only list of primitive instructions: shell command
// blocks, environment variable declarations, labels, comments, file copies,
// raw format-specific directives, and an optional runscript. The rendering
// step walks the list in order and emits the target format verbatim; it
// never reorders, merges, or deduplicates instructions.
//
// Example usage:
//
//	stage := recipe.NewStage("stage0", "nvidia/cuda:8.0-devel-ubuntu16.04")
//	stage.Add(
//	    recipe.Comment("Install OpenSSL"),
//	    recipe.Shell{"make -j$(nproc)", "make install -j$(nproc)"},
//	    recipe.Environment{"OPENSSL_ROOT_DIR": "/usr/local"},
//	)
//	text := recipe.Render(recipe.Singularity, stage)
package recipe
