package confbind

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for binding and walking events.
var (
	SignalWalkStart    = capitan.NewSignal("confbind.walk.start", "Graph walk beginning")
	SignalWalkComplete = capitan.NewSignal("confbind.walk.complete", "Graph walk finished")
	SignalBindStart    = capitan.NewSignal("confbind.bind.start", "Binding pipeline beginning")
	SignalBindComplete = capitan.NewSignal("confbind.bind.complete", "Binding pipeline finished")
)

// Keys for typed event data.
var (
	KeyTypeName    = capitan.NewStringKey("type_name")
	KeyDirection   = capitan.NewStringKey("direction")
	KeyStep        = capitan.NewStringKey("step")
	KeySourceCount = capitan.NewIntKey("source_count")
	KeyVisited     = capitan.NewIntKey("visited")
	KeyTransformed = capitan.NewIntKey("transformed")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
)

// emitWalkStart emits an event when a walk begins.
func emitWalkStart(ctx context.Context, typeName string, dir Direction) {
	capitan.Emit(ctx, SignalWalkStart,
		KeyTypeName.Field(typeName),
		KeyDirection.Field(string(dir)),
	)
}

// emitWalkComplete emits an event when a walk finishes.
func emitWalkComplete(ctx context.Context, typeName string, dir Direction, duration time.Duration, report WalkReport, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeyDirection.Field(string(dir)),
		KeyDuration.Field(duration),
		KeyVisited.Field(report.Visited),
		KeyTransformed.Field(report.Transformed),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalWalkComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalWalkComplete, fields...)
	}
}

// emitBindStart emits an event when the pipeline begins.
func emitBindStart(ctx context.Context, typeName string, sources int) {
	capitan.Emit(ctx, SignalBindStart,
		KeyTypeName.Field(typeName),
		KeySourceCount.Field(sources),
	)
}

// emitBindComplete emits an event when the pipeline finishes. step names
// the last pipeline stage that completed.
func emitBindComplete(ctx context.Context, typeName, step string, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeyStep.Field(step),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalBindComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalBindComplete, fields...)
	}
}
