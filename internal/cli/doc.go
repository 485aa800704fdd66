// Parses flags and dispatches the xccgen subcommands.
//
// The tool exposes the following commands:
//
//	rel       Generate a release recipe (single- or multi-stage).
//	dev       Generate a development recipe with a runscript build phase.
//	build     Build a singularity image from a generated definition.
//	push      Sign and upload an image to a sylabs library.
//	version   Print the version string.
//
// Global flags override build-time defaults set via linker flags. After
// parsing, the global logger is reconfigured to reflect the final level
// and verbosity before a command runs.
package cli
