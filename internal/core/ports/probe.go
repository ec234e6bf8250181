package ports

// ToolProbe locates executables for toolchain resolution.
//
//go:generate mockgen -source=probe.go -destination=mocks/mock_probe.go -package=mocks
type ToolProbe interface {
	// LookPath returns the full path of an executable name. Directories in
	// extra are searched before the process PATH.
	LookPath(name string, extra []string) (string, error)
	// SearchPath returns the directories LookPath would try, in order.
	SearchPath(extra []string) []string
}
