package vars

// Do not change these. These are always going to be set
// at compile-time.

var (
	Version     string = "unknown"
	GitRevision string = "unknown"
	Syslog      string = "true"
)
