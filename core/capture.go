package core

import (
	"context"
	"runtime/debug"
)

// Run invokes the unit exactly once inside a capture boundary. A panic
// raised during the invocation is intercepted at this boundary, reported
// to the installed PanicReporter, and returned as a *PanicError. It never
// propagates past this call.
//
// On first use the process-wide silent reporter is installed; callers
// that want diagnostics install their own reporter beforehand via
// InstallReporter.
func Run(ctx context.Context, unit Unit) error {
	return capture(ctx, StageUnit, unit)
}

// RunHandler invokes the handler with the failure message through the
// same capture boundary as the main unit. A handler that itself panics
// is captured and the panic returned, not re-raised.
func RunHandler(ctx context.Context, handler Handler, errMsg string) error {
	return capture(ctx, StageHandler, func(ctx context.Context) {
		handler(ctx, errMsg)
	})
}

// capture is the single guarded region everything in this package runs
// through. The recover boundary covers exactly one invocation of fn.
func capture(ctx context.Context, stage Stage, fn Unit) (err error) {
	reporter := installedReporter()
	defer func() {
		if r := recover(); r != nil {
			pe := &PanicError{Value: r, Stack: debug.Stack()}
			reporter.ReportPanic(ctx, stage, pe)
			currentMetrics().RecordPanic(stage)
			err = pe
		}
	}()
	if ctx == nil {
		ctx = context.Background()
	}
	fn(ctx)
	return nil
}
