package build

import "fmt"

// SourceFetchError reports a failure to download component sources at the
// pinned ref. Environmental; safe for an operator to retry the whole build.
type SourceFetchError struct {
	Component string
	Ref       string
	Output    string
	Err       error
}

func (e *SourceFetchError) Error() string {
	return fmt.Sprintf("failed to fetch source for %s at %s: %v", e.Component, e.Ref, e.Err)
}

func (e *SourceFetchError) Unwrap() error { return e.Err }

// PatchApplyError reports a patch that did not apply cleanly. This signals a
// source/patch mismatch requiring operator intervention and is never retried.
type PatchApplyError struct {
	Component string
	Output    string
	Err       error
}

func (e *PatchApplyError) Error() string {
	return fmt.Sprintf("failed to apply patches for %s: %v", e.Component, e.Err)
}

func (e *PatchApplyError) Unwrap() error { return e.Err }

// BuildError reports a compile-stage failure with the captured tool output.
type BuildError struct {
	Component string
	Output    string
	Err       error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build failed for %s: %v", e.Component, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }
