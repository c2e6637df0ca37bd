package runtime

import (
	"context"

	"github.com/risor-io/risor/object"

	"github.com/Melamoto/dexter/internal/store"
	"github.com/Melamoto/dexter/internal/trace"
)

func makeRunsFn(s *store.Store) *object.Builtin {
	return object.NewBuiltin("runs", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError("runs", 0, len(args))
		}
		runs, err := s.Runs()
		if err != nil {
			return object.Errorf("runs: %v", err)
		}
		items := make([]object.Object, 0, len(runs))
		for i := range runs {
			items = append(items, runToMap(&runs[i]))
		}
		return object.NewList(items)
	})
}

func makeRunStepsFn(s *store.Store) *object.Builtin {
	return object.NewBuiltin("run_steps", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("run_steps", 1, len(args))
		}
		id, ok := args[0].(*object.Int)
		if !ok {
			return object.Errorf("run_steps: expected int run id, got %s", args[0].Type())
		}
		steps, err := s.StepsByRun(id.Value())
		if err != nil {
			return object.Errorf("run_steps: %v", err)
		}
		items := make([]object.Object, 0, len(steps))
		for _, st := range steps {
			items = append(items, stepToMap(st))
		}
		return object.NewList(items)
	})
}

func makeBestRunFn(s *store.Store) *object.Builtin {
	return object.NewBuiltin("best_run", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("best_run", 1, len(args))
		}
		exe, ok := args[0].(*object.String)
		if !ok {
			return object.Errorf("best_run: expected string executable, got %s", args[0].Type())
		}
		run, err := s.BestRun(exe.Value())
		if err != nil {
			return object.Errorf("best_run: %v", err)
		}
		if run == nil {
			return object.Nil
		}
		return runToMap(run)
	})
}

func runToMap(r *store.Run) *object.Map {
	return object.NewMap(map[string]object.Object{
		"id":             object.NewInt(r.ID),
		"started_at":     object.NewString(r.StartedAt.Format("2006-01-02T15:04:05Z07:00")),
		"executable":     object.NewString(r.Executable),
		"debugger":       object.NewString(r.Debugger),
		"dexter_version": object.NewString(r.DexterVersion),
		"score":          object.NewFloat(r.Score),
		"penalty_points": object.NewInt(int64(r.PenaltyPoints)),
		"max_points":     object.NewInt(int64(r.MaxPoints)),
		"num_steps":      object.NewInt(int64(r.NumSteps)),
	})
}

func stepToMap(st *trace.Step) *object.Map {
	watches := make(map[string]object.Object, len(st.Watches))
	for name, val := range st.Watches {
		watches[name] = object.NewString(val)
	}
	return object.NewMap(map[string]object.Object{
		"function": object.NewString(st.Function),
		"path":     object.NewString(st.Location.Path),
		"line":     object.NewInt(int64(st.Location.Line)),
		"col":      object.NewInt(int64(st.Location.Column)),
		"kind":     object.NewString(string(st.Kind)),
		"watches":  object.NewMap(watches),
	})
}
