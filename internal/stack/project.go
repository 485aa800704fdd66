package stack

// An entry in the ordered project registry.
//
// The set of implementations is closed; each kind carries exactly the
// fields its build-step generator needs. The Generator dispatches on the
// concrete type.
type Project interface {
	// Unique name of the project, used for include/exclude filtering.
	ProjectName() string
}

// A project built with the common clone-configure-install sequence.
type GitCMakeProject struct {
	Name   string
	URL    string
	Branch string
	Opts   []string // Extra cmake options, in addition to the install prefix.
}

func (p GitCMakeProject) ProjectName() string { return p.Name }

// The cling interpreter. Source location lives on the [Generator] so the
// CLI can point it at a fork, branch, or commit.
type ClingProject struct{}

func (ClingProject) ProjectName() string { return "cling" }

// The xeus-cling Jupyter bridge.
type XeusClingProject struct {
	URL    string
	Branch string
}

func (XeusClingProject) ProjectName() string { return "xeus-cling" }

// OpenSSL, built with its foreign configure-and-make sequence.
type OpenSSLProject struct {
	Version string // Versioned tarball name, e.g. "openssl-1.1.1c".
}

func (OpenSSLProject) ProjectName() string { return "openssl" }

// The miniconda bootstrap providing python, pip, and jupyter.
type MinicondaProject struct{}

func (MinicondaProject) ProjectName() string { return "miniconda3" }

// Registration of the Jupyter kernel descriptors.
type JupyterKernelProject struct{}

func (JupyterKernelProject) ProjectName() string { return "jupyter_kernel" }

// Returns the ordered catalog of all projects in the stack.
//
// The order encodes build dependencies and must not be changed casually:
// miniconda comes first because the cling kernel registration needs its
// pip, cling precedes xeus-cling, and the xeus library chain precedes
// xeus-cling. The cmake projects get the configured build type merged
// into their option lists, plus the libc++ flag when enabled.
func defaultRegistry(cfg *Config) []Project {
	bt := "-DCMAKE_BUILD_TYPE=" + string(cfg.BuildType)

	gitCMake := func(name, url, branch string, opts ...string) Project {
		if cfg.BuildLibcxx {
			opts = mergeLibcxxFlag(opts)
		}
		return GitCMakeProject{Name: name, URL: url, Branch: branch, Opts: opts}
	}

	return []Project{
		MinicondaProject{},
		ClingProject{},

		// xeus dependencies
		OpenSSLProject{Version: "openssl-1.1.1c"},
		gitCMake("libzmq", "https://github.com/zeromq/libzmq.git", "v4.2.5",
			"-DWITH_PERF_TOOL=OFF",
			"-DZMQ_BUILD_TESTS=OFF",
			"-DENABLE_CPACK=OFF",
			bt),
		gitCMake("cppzmq", "https://github.com/zeromq/cppzmq.git", "v4.3.0", bt),
		gitCMake("nlohmann_json", "https://github.com/nlohmann/json.git", "v3.7.0", bt),
		gitCMake("xtl", "https://github.com/QuantStack/xtl.git", "0.6.9", bt),
		gitCMake("xeus", "https://github.com/QuantStack/xeus.git", "0.23.3",
			"-DBUILD_EXAMPLES=OFF",
			"-DDISABLE_ARCH_NATIVE=ON",
			bt),

		// xeus-cling and dependencies
		gitCMake("pugixml", "https://github.com/zeux/pugixml.git", "v1.8.1",
			bt,
			"-DCMAKE_POSITION_INDEPENDENT_CODE=ON"),
		gitCMake("cxxopts", "https://github.com/jarro2783/cxxopts.git", "v2.2.0", bt),
		XeusClingProject{
			URL:    "https://github.com/QuantStack/xeus-cling.git",
			Branch: "0.8.0",
		},
		JupyterKernelProject{},

		gitCMake("xproperty", "https://github.com/QuantStack/xproperty.git", "0.8.1", bt),
		gitCMake("xwidgets", "https://github.com/QuantStack/xwidgets.git", "0.19.0", bt),
	}
}
