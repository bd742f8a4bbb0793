package system

// System bundles the filesystem and command execution capabilities
// that the rest of the program needs from the host.
type System interface {
	CommandRunner
	FS() Filesystem
}
