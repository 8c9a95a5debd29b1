package validate

// Runtime class preference, most specific first. enclave-cc wins when
// present, kata-qemu is preferred on arm64 where the plain kata class
// is not hardware-backed, and kata is the general fallback.
const (
	classEnclaveCC = "enclave-cc"
	classKataQemu  = "kata-qemu"
	classKata      = "kata"
)

// SelectRuntimeClass picks the confidential runtime class to smoke
// test from the classes present in the cluster. It returns "" when no
// known confidential class is installed.
func SelectRuntimeClass(available []string, arch string) string {
	present := make(map[string]bool, len(available))
	for _, name := range available {
		present[name] = true
	}

	if present[classEnclaveCC] {
		return classEnclaveCC
	}
	if arch == "arm64" && present[classKataQemu] {
		return classKataQemu
	}
	if present[classKata] {
		return classKata
	}
	if present[classKataQemu] {
		return classKataQemu
	}
	return ""
}
