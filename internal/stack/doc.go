// Package stack assembles container build plans for the xeus-cling-cuda
// software stack.
//
// The stack is a catalog of native projects (the cling interpreter, the
// xeus-cling Jupyter bridge, their library dependencies, a miniconda
// bootstrap, and the Jupyter kernel registrations) that must be cloned,
// configured, compiled, and installed in a fixed order inside a CUDA base
// image. Each project kind has a build-step generator that turns a project
// descriptor plus the run configuration into shell commands and cleanup
// bookkeeping; the Generator walks the ordered registry, dispatches to the
// matching generator, and composes the results into recipe stages.
//
// Three compositions are supported: a single-stage release recipe, a
// development recipe that defers the frequently-changed projects into the
// container's runscript, and an experimental two-stage release recipe that
// copies only install artifacts into a slimmer final image.
//
// Generators are pure: they return their instructions and the scratch
// paths slated for deletion; the Generator merges the cleanup lists and
// emits a single consolidated removal step at the end of a stage.
package stack
