package domain

import "go.trai.ch/zerr"

var (
	// ErrScanRootMissing is returned when a source root passed to the scanner does not exist.
	ErrScanRootMissing = zerr.New("source root does not exist")

	// ErrScanRootNotDir is returned when a source root exists but is not a directory.
	ErrScanRootNotDir = zerr.New("source root is not a directory")

	// ErrUnknownToolchain is returned when a toolchain name is neither a family nor a concrete toolchain.
	ErrUnknownToolchain = zerr.New("unknown toolchain")

	// ErrToolchainUnavailable is returned when no candidate toolchain has a discoverable compiler.
	ErrToolchainUnavailable = zerr.New("no usable toolchain found")

	// ErrUnsupportedToolchainForTarget is returned when the target explicitly rejects a toolchain.
	ErrUnsupportedToolchainForTarget = zerr.New("toolchain is not supported for target")

	// ErrUnsupportedCLib is returned when a C library variant cannot be used and substitution is disabled.
	ErrUnsupportedCLib = zerr.New("c library variant is not supported")

	// ErrNoLinkerScript is returned when the scan did not produce a linker script.
	ErrNoLinkerScript = zerr.New("no linker script found")

	// ErrLinkFailed is returned when the link or objcopy step fails.
	ErrLinkFailed = zerr.New("link failed")

	// ErrBuildFailure is returned when one or more translation units failed to compile.
	ErrBuildFailure = zerr.New("build failed")

	// ErrSchedulerTimeout is returned when a compilation batch exceeds its wall-clock ceiling.
	ErrSchedulerTimeout = zerr.New("compilation timed out")

	// ErrWorkerCrashed is returned when a worker failed for reasons other than a compiler exit code.
	ErrWorkerCrashed = zerr.New("compilation worker crashed")

	// ErrHook is returned when a post-binary hook fails.
	ErrHook = zerr.New("post-binary hook failed")

	// ErrHookNotRegistered is returned when a target names a hook that has no implementation.
	ErrHookNotRegistered = zerr.New("post-binary hook is not registered")

	// ErrHookAlreadyRegistered is returned when two hooks share an identifier.
	ErrHookAlreadyRegistered = zerr.New("post-binary hook already registered")

	// ErrInvalidHookArgument is returned when a hook argument cannot be parsed.
	ErrInvalidHookArgument = zerr.New("invalid hook argument")

	// ErrTemplateVariable is returned when a command template references an unknown or ill-shaped variable.
	ErrTemplateVariable = zerr.New("invalid command template variable")

	// ErrMissingTemplate is returned when a toolchain lacks a command template for a build step.
	ErrMissingTemplate = zerr.New("missing command template")

	// ErrTargetNotFound is returned when a target name is not present in the target file.
	ErrTargetNotFound = zerr.New("target not found")

	// ErrTargetsFileNotFound is returned when no target file can be located.
	ErrTargetsFileNotFound = zerr.New("targets file not found")

	// ErrInvalidTarget is returned when a target definition is incomplete.
	ErrInvalidTarget = zerr.New("invalid target definition")

	// ErrNoSourceRoots is returned when a build is requested without source roots.
	ErrNoSourceRoots = zerr.New("no source roots specified")

	// ErrNoTargetSpecified is returned when a build is requested without a target.
	ErrNoTargetSpecified = zerr.New("no target specified")

	// ErrReportWriteFailed is returned when the build report cannot be written.
	ErrReportWriteFailed = zerr.New("failed to write build report")
)
