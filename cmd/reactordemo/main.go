// Command reactordemo wires a small reactor graph, a periodic timer
// driving a counting reaction, and runs it until a timeout or signal.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/comalice/reactorx"
	"github.com/comalice/reactorx/internal/actions"
	"github.com/comalice/reactorx/internal/reaction"
	"github.com/comalice/reactorx/internal/reactor"
	"github.com/comalice/reactorx/internal/rtime"
)

func main() {
	period := flag.Duration("period", 500*time.Millisecond, "timer period")
	duration := flag.Duration("duration", 5*time.Second, "how long to run before stopping")
	workers := flag.Int("workers", 1, "scheduler worker pool size")
	verbose := flag.Bool("verbose", false, "log every reaction dispatch")
	exportPath := flag.String("export", "", "write the dependency graph DOT to this path and exit")
	dumpConfig := flag.String("dump-config", "", "write the resolved Config as YAML to this path and exit")
	flag.Parse()

	cfg := reactorx.DefaultConfig()
	cfg.WorkerPoolSize = *workers
	cfg.Verbose = *verbose

	if *dumpConfig != "" {
		if err := cfg.Save(*dumpConfig); err != nil {
			log.Fatalf("dump-config: %v", err)
		}
		fmt.Printf("wrote config to %s\n", *dumpConfig)
		return
	}

	env := reactorx.New("reactordemo",
		reactorx.WithWorkerPoolSize(cfg.WorkerPoolSize),
		reactorx.WithVerbose(cfg.Verbose),
	)

	top, err := reactor.New("ticker", nil, env, env)
	if err != nil {
		log.Fatalf("reactor.New: %v", err)
	}
	if err := env.RegisterReactor(top); err != nil {
		log.Fatalf("RegisterReactor: %v", err)
	}

	timer, err := actions.NewTimer("tick", 0, rtime.Duration(*period), top, env)
	if err != nil {
		log.Fatalf("NewTimer: %v", err)
	}
	if err := top.RegisterAction(timer); err != nil {
		log.Fatalf("RegisterAction: %v", err)
	}

	count := 0
	countReaction, err := reaction.New("count", 1, top, env, func() {
		count++
		log.Printf("tick %d", count)
	})
	if err != nil {
		log.Fatalf("reaction.New: %v", err)
	}
	if err := top.RegisterReaction(countReaction); err != nil {
		log.Fatalf("RegisterReaction: %v", err)
	}

	if err := env.Assemble(); err != nil {
		log.Fatalf("Assemble: %v", err)
	}
	if err := countReaction.DeclareTrigger(timer); err != nil {
		log.Fatalf("DeclareTrigger: %v", err)
	}

	if *exportPath != "" {
		if err := env.ExportDependencyGraph(*exportPath); err != nil {
			log.Fatalf("ExportDependencyGraph: %v", err)
		}
		fmt.Printf("wrote dependency graph to %s\n", *exportPath)
		return
	}

	done, err := env.Startup()
	if err != nil {
		log.Fatalf("Startup: %v", err)
	}
	log.Printf("run %s started, period=%s", env.RunID, *period)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-time.After(*duration):
		log.Printf("duration elapsed, shutting down")
		if err := env.SyncShutdown(); err != nil {
			log.Fatalf("SyncShutdown: %v", err)
		}
	case <-sig:
		log.Printf("signal received, shutting down")
		env.AsyncShutdown()
	case <-done:
	}

	<-done
	log.Printf("stopped after %d ticks", count)
}
