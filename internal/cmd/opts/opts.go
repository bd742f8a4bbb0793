package cmdOpts

type MainOpts struct {
	ColorAlways  bool
	ConfigValues map[string]string
	Sources      []string
	Destination  string
	Verbose      bool
}

type AliasesOpts struct {
	DisplayJson bool
}

type CompileOpts struct {
	All      bool
	Dry      bool
	Rebuild  bool
	Comments []string
	Json     bool
	Names    []string
}

type FetchOpts struct {
	Name  string
	Info  bool
	Newer string
}

type ListOpts struct {
	Json bool
}

type StoreOpts struct {
	Name          string
	File          string
	Comments      []string
	Dry           bool
	AlwaysConfirm bool
}
