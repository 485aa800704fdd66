package stack

// Installer script for the miniconda bootstrap.
const minicondaInstaller = "Miniconda3-latest-Linux-x86_64.sh"

// Generates the miniconda bootstrap: download the installer, run it
// non-interactively into the install prefix, then install the Jupyter
// package set with the fresh conda.
//
// The package order is significant: nodejs must precede the labextension
// build, and widgetsnbextension must be present before the jupyterlab
// manager extension is linked. The returned environment carries the PATH
// extension that downstream generators rely on to find conda, pip, and
// the jupyter tools.
func BuildMiniconda(cfg *Config) (commands []string, env map[string]string) {
	condaBin := cfg.MinicondaPath() + "/bin/"
	conda := condaBin + "conda"

	commands = []string{
		"cd /tmp",
		"wget https://repo.continuum.io/miniconda/" + minicondaInstaller,
		"chmod u+x " + minicondaInstaller,
		"./" + minicondaInstaller + " -b -p " + cfg.MinicondaPath(),
		"export PATH=$PATH:" + condaBin,
		conda + " install -y -c conda-forge nodejs",
		conda + " install -y jupyter",
		conda + " install -y -c conda-forge jupyterlab",
		conda + " install -y -c biobuilds libuuid",
		conda + " install -y widgetsnbextension -c conda-forge",
		condaBin + "jupyter labextension install @jupyter-widgets/jupyterlab-manager",
		"rm /tmp/" + minicondaInstaller,
		"cd -",
	}

	env = map[string]string{"PATH": "$PATH:" + condaBin}

	return commands, env
}
