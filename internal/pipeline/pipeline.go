// Package pipeline runs a chain of stream-processing stages concurrently,
// each stage consuming the previous stage's output.
//
// A stage may be an external process or an in-process function; the
// pipeline does not care. All stages of one Run execute at the same time,
// connected by in-memory pipes, so a stage producing data faster than its
// successor consumes it blocks instead of buffering unboundedly, and no
// stage ever waits on a pipe nobody is draining.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"
)

// Stage is one unit of a pipeline: it reads its input stream, writes its
// output stream and returns once both are fully processed.
type Stage interface {
	Name() string
	Run(ctx context.Context, in io.Reader, out io.Writer) error
}

// FuncStage adapts a function to the Stage interface for work that runs
// in-process.
type FuncStage struct {
	StageName string
	Fn        func(ctx context.Context, in io.Reader, out io.Writer) error
}

// Func wraps fn as a named in-process stage.
func Func(name string, fn func(ctx context.Context, in io.Reader, out io.Writer) error) *FuncStage {
	return &FuncStage{StageName: name, Fn: fn}
}

func (s *FuncStage) Name() string { return s.StageName }

func (s *FuncStage) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	return s.Fn(ctx, in, out)
}

// Tee returns a stage that behaves like inner but also copies everything
// inner writes to w.
func Tee(inner Stage, w io.Writer) Stage {
	return Func(inner.Name(), func(ctx context.Context, in io.Reader, out io.Writer) error {
		return inner.Run(ctx, in, io.MultiWriter(out, w))
	})
}

// Feed runs the stages in the background and returns a reader over the last
// stage's output, so a downstream consumer can drain the pipeline while it
// is still producing. A stage failure surfaces as the reader's error.
// Closing the reader releases the background stages even when the consumer
// stopped before end of stream.
func Feed(ctx context.Context, src io.Reader, stages ...Stage) io.ReadCloser {
	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(Run(ctx, src, pw, stages...))
	}()
	return pr
}

// Run executes the stages as one concurrent pipeline: src feeds the first
// stage, every stage's output feeds the next stage's input, and the last
// stage writes to dst.
//
// Each adjacent pair is connected by an io.Pipe whose ends are closed when
// their stage finishes, so a failing or early-exiting stage unblocks its
// neighbors instead of deadlocking them. The first stage error is returned,
// wrapped with the stage name.
func Run(ctx context.Context, src io.Reader, dst io.Writer, stages ...Stage) error {
	if len(stages) == 0 {
		return errors.New("pipeline: no stages")
	}

	g, ctx := errgroup.WithContext(ctx)
	in := src
	var upstream *io.PipeReader
	for i, stage := range stages {
		var (
			out     io.Writer = dst
			next    *io.PipeReader
			outPipe *io.PipeWriter
		)
		if i < len(stages)-1 {
			next, outPipe = io.Pipe()
			out = outPipe
		}
		stage, stageIn, inPipe := stage, in, upstream
		g.Go(func() error {
			err := stage.Run(ctx, stageIn, out)
			if err != nil {
				err = fmt.Errorf("stage %q: %w", stage.Name(), err)
			}
			// Close our output so the next stage sees EOF (or our error),
			// and our input so a still-writing predecessor unblocks.
			if outPipe != nil {
				outPipe.CloseWithError(err)
			}
			if inPipe != nil {
				inPipe.CloseWithError(err)
			}
			return err
		})
		in, upstream = next, next
	}
	return g.Wait()
}
