package ports

// ProgressReporter receives download progress from the installation engine.
// Step is called from concurrent workers and implementations must tolerate
// overlapping calls without serializing the callers.
type ProgressReporter interface {
	Begin(total int)
	Step(msg string)
	End()
}
