package recoverspawn

import "github.com/driftworks/go-recoverspawn/core"

// Re-export commonly used types from core package for convenience.
// This allows users to import only the recoverspawn package for most use cases.

// Unit is the unit of work handed to a spawn operation
type Unit = core.Unit

// Handler receives the stringified failure of a unit that panicked
type Handler = core.Handler

// Finalizer runs unconditionally after the unit and handler
type Finalizer = core.Finalizer

// Handle represents the eventual completion of one spawn
type Handle = core.Handle

// PanicError is the captured panic payload of a failed unit
type PanicError = core.PanicError

// JoinError is the failure surfaced by an executor task boundary
type JoinError = core.JoinError

// JoinKind classifies how a task boundary failed
type JoinKind = core.JoinKind

// Executor is the cooperative task boundary of the task family
type Executor = core.Executor

// ExecutorConfig configures an Executor
type ExecutorConfig = core.ExecutorConfig

// ExecutorStats is a point-in-time executor snapshot
type ExecutorStats = core.ExecutorStats

// Stage identifies which callable of a spawn panicked
type Stage = core.Stage

// Logger and Field for structured logging
type Logger = core.Logger
type Field = core.Field

// Join failure kinds
const (
	JoinPanicked  = core.JoinPanicked
	JoinCancelled = core.JoinCancelled
)

// Capture stages
const (
	StageUnit      = core.StageUnit
	StageHandler   = core.StageHandler
	StageFinalizer = core.StageFinalizer
)

// ErrExecutorClosed is returned when submitting to a stopped executor
var ErrExecutorClosed = core.ErrExecutorClosed

// Failure inspection helpers
var (
	FailureMessage = core.FailureMessage
	IsPanic        = core.IsPanic
	IsCancelled    = core.IsCancelled
)

// Reporter and metrics installation
var (
	InstallReporter = core.InstallReporter
	SetMetrics      = core.SetMetrics
)

// F creates a structured logging field
var F = core.F

// NewExecutor creates a private executor for callers that do not want to
// share the process-wide one.
var NewExecutor = core.NewExecutor
