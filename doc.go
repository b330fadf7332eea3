// Package reactorx implements a deterministic reactor-oriented discrete-event
// runtime.
//
// A reactor tree is built during the Construction phase: reactors, ports,
// actions and reactions are constructed bottom-up and registered with their
// container (internal/element's two-step "construct then attach" pattern).
// Environment.Assemble then moves to the Assembly phase, where port bindings
// and reaction trigger/dependency edges are declared. Environment.Startup
// builds the reaction dependency graph (internal/graph), assigns each
// reaction a topological level, and hands dispatch off to a scheduler
// goroutine (internal/scheduler) that advances logical time tag by tag,
// dispatching ready reactions level by level across a worker pool.
//
// # Example
//
//	env := reactorx.New("demo")
//	top, _ := reactor.New("top", nil, env, env)
//	_ = env.RegisterReactor(top)
//	if err := env.Assemble(); err != nil {
//		panic(err)
//	}
//	// wire ports/triggers here, then:
//	done, err := env.Startup()
//	if err != nil {
//		panic(err)
//	}
//	<-done
//
// # Error handling
//
// Construction, assembly and startup errors are returned as
// *element.ValidationError; they are never panicked. Once dispatch begins,
// a panicking reaction body is not recovered: it propagates out of the
// scheduler's worker goroutine and terminates the process, per spec §7.
package reactorx
