package recipe

import (
	"fmt"
	"sort"
	"strings"
)

// A single primitive operation inside a stage.
//
// Implementations render themselves to both target formats. The set of
// implementations is closed; the generator layer only ever emits the
// types defined in this package.
type Instruction interface {
	docker(w *strings.Builder)
	singularity(w *strings.Builder)
}

// A recipe comment.
type Comment string

func (c Comment) docker(w *strings.Builder)      { writeComment(w, string(c)) }
func (c Comment) singularity(w *strings.Builder) { writeComment(w, string(c)) }

func writeComment(w *strings.Builder, text string) {
	for _, line := range strings.Split(text, "\n") {
		w.WriteString("# " + line + "\n")
	}
}

// An ordered block of shell commands executed during the image build.
type Shell []string

func (s Shell) docker(w *strings.Builder) {
	if len(s) == 0 {
		return
	}
	w.WriteString("RUN " + strings.Join(s, " && \\\n    ") + "\n")
}

func (s Shell) singularity(w *strings.Builder) {
	if len(s) == 0 {
		return
	}
	w.WriteString("%post\n")
	w.WriteString("    cd /\n")
	for _, cmd := range s {
		w.WriteString("    " + cmd + "\n")
	}
}

// Environment variables persisted in the image.
//
// For Singularity the variables are exported in %environment for runtime
// visibility and repeated in %post so that later build steps in the same
// recipe can already see them, matching Docker's ENV semantics.
type Environment map[string]string

func (e Environment) docker(w *strings.Builder) {
	if len(e) == 0 {
		return
	}
	pairs := make([]string, 0, len(e))
	for _, k := range sortedKeys(e) {
		pairs = append(pairs, k+"="+e[k])
	}
	w.WriteString("ENV " + strings.Join(pairs, " \\\n    ") + "\n")
}

func (e Environment) singularity(w *strings.Builder) {
	if len(e) == 0 {
		return
	}
	w.WriteString("%environment\n")
	for _, k := range sortedKeys(e) {
		w.WriteString("    export " + k + "=" + e[k] + "\n")
	}
	w.WriteString("%post\n")
	for _, k := range sortedKeys(e) {
		w.WriteString("    export " + k + "=" + e[k] + "\n")
	}
}

// Image metadata labels.
type Label map[string]string

func (l Label) docker(w *strings.Builder) {
	if len(l) == 0 {
		return
	}
	pairs := make([]string, 0, len(l))
	for _, k := range sortedKeys(l) {
		pairs = append(pairs, fmt.Sprintf("%s=%q", k, l[k]))
	}
	w.WriteString("LABEL " + strings.Join(pairs, " \\\n    ") + "\n")
}

func (l Label) singularity(w *strings.Builder) {
	if len(l) == 0 {
		return
	}
	w.WriteString("%labels\n")
	for _, k := range sortedKeys(l) {
		w.WriteString("    " + k + " " + l[k] + "\n")
	}
}

// Format-specific text emitted verbatim. The field matching the target
// format is used; an empty field emits nothing for that format.
type Raw struct {
	Docker      string
	Singularity string
}

func (r Raw) docker(w *strings.Builder) {
	if r.Docker != "" {
		w.WriteString(r.Docker + "\n")
	}
}

func (r Raw) singularity(w *strings.Builder) {
	if r.Singularity != "" {
		w.WriteString(r.Singularity + "\n")
	}
}

// Copies a path into the image, optionally from a previous named stage.
type Copy struct {
	From string // Source stage name. Empty for host copies.
	Src  string
	Dest string
}

func (c Copy) docker(w *strings.Builder) {
	w.WriteString("COPY ")
	if c.From != "" {
		w.WriteString("--from=" + c.From + " ")
	}
	w.WriteString(c.Src + " " + c.Dest + "\n")
}

func (c Copy) singularity(w *strings.Builder) {
	if c.From != "" {
		w.WriteString("%files from " + c.From + "\n")
	} else {
		w.WriteString("%files\n")
	}
	w.WriteString("    " + c.Src + " " + c.Dest + "\n")
}

// The command sequence executed when the container is run.
//
// Singularity runs the commands as the %runscript body. Docker has no
// multi-command equivalent, so the commands are chained into a single
// shell entrypoint.
type Runscript []string

func (r Runscript) docker(w *strings.Builder) {
	if len(r) == 0 {
		return
	}
	w.WriteString(fmt.Sprintf("ENTRYPOINT [\"/bin/bash\", \"-c\", %q]\n", strings.Join(r, " && ")))
}

func (r Runscript) singularity(w *strings.Builder) {
	if len(r) == 0 {
		return
	}
	w.WriteString("%runscript\n")
	for _, cmd := range r {
		w.WriteString("    " + cmd + "\n")
	}
}

// Returns the map keys in sorted order for deterministic rendering.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
