// Package orchestration runs one or more estimation methods concurrently and
// compares their estimates. Presentation is reached only through the
// ProgressReporter, ResultPresenter and ErrorHandler interfaces.
package orchestration
