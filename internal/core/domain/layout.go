package domain

import "path/filepath"

const (
	// BuildDirName is the default root for build outputs.
	BuildDirName = "BUILD"

	// ConfigHeaderName is the build-config header. Finding it sets ResourceSet.HasConfig.
	ConfigHeaderName = "mbuild_config.h"

	// IgnoreFileName holds per-directory glob patterns excluded from scanning.
	IgnoreFileName = ".mbuildignore"

	// TargetsFileName is the target description file searched for upward from the working directory.
	TargetsFileName = "targets.yaml"

	// ReportFileName is the name of the JSON build report written into the build directory.
	ReportFileName = "build_report.json"

	// DepFileExt is the extension of Make-style dependency files emitted next to objects.
	DepFileExt = ".d"

	// ObjectExt is the extension given to compiled translation units.
	ObjectExt = ".o"

	// ElfExt is the extension of the linked image.
	ElfExt = ".elf"

	// DefaultArtifactExt is used when a target declares no output extension.
	DefaultArtifactExt = "bin"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultBuildPath returns the build directory for one (target, toolchain) pair.
// It joins BUILD, the target name and the toolchain name.
func DefaultBuildPath(target, toolchain string) string {
	return filepath.Join(BuildDirName, target, toolchain)
}

// ReportPath returns the location of the build report inside buildDir.
func ReportPath(buildDir string) string {
	return filepath.Join(buildDir, ReportFileName)
}
