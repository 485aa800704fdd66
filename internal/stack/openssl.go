package stack

// Generates the OpenSSL build: download the versioned tarball, extract,
// then run the foreign configure-and-make sequence with the install
// prefix and a runtime library path. The returned environment publishes
// OPENSSL_ROOT_DIR so later cmake configure steps can find the
// installation through the build environment.
func BuildOpenSSL(p OpenSSLProject, cfg *Config) (commands []string, env map[string]string, cleanup []string) {
	tarball := cfg.BuildPrefix + "/" + p.Version + ".tar.gz"
	sourceDir := cfg.BuildPrefix + "/" + p.Version
	threads := cfg.ThreadsForCompile()

	commands = []string{
		wgetTo("https://www.openssl.org/source/"+p.Version+".tar.gz", cfg.BuildPrefix),
		untar(tarball, cfg.BuildPrefix),
		"cd " + sourceDir,
		"./config --prefix=" + cfg.InstallPrefix + " -Wl,-rpath=/usr/local/lib",
		"make -j" + threads,
		"make install -j" + threads,
		"cd -",
	}

	env = map[string]string{"OPENSSL_ROOT_DIR": cfg.InstallPrefix}

	if !cfg.KeepBuild {
		cleanup = []string{sourceDir, tarball}
	}

	return commands, env, cleanup
}
