package constants

const (
	DefaultConfigLocation = "/etc/mibfs/config.toml"
	ConfigEnvVar          = "MIBFS_CONFIG"

	StateDatabaseEnvVar = "MIBFS_STATE"
)
