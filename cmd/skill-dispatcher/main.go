// Package main is the operator CLI for skill-dispatcher: dispatch-log maintenance,
// event tailing and end-to-end probes.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/morezero/skill-dispatcher/internal/config"
	"github.com/morezero/skill-dispatcher/internal/monitor"
	"github.com/morezero/skill-dispatcher/pkg/commsutil"
	"github.com/morezero/skill-dispatcher/pkg/db"
	"github.com/morezero/skill-dispatcher/pkg/dispatcher"
	"github.com/morezero/skill-dispatcher/pkg/events"
	"github.com/morezero/skill-dispatcher/pkg/skill"
)

const usage = `Usage: skill-dispatcher [command]
       skill-dispatcher migrate up          Run dispatch-log migrations.
       skill-dispatcher migrate down        Print the rollback notice (migrations are forward-only).
       skill-dispatcher migrate status      Show migration status.
       skill-dispatcher ensure-db [name]    Create database if missing (default name: skills_test). Uses DATABASE_URL host/user.
       skill-dispatcher clear               Truncate the dispatch log; schema is preserved.
       skill-dispatcher recent [n]          Print the n most recent dispatches and per-route totals.
       skill-dispatcher tail [subject]      Print dispatch events from COMMS until interrupted.
       skill-dispatcher probe [request]     Dispatch one synthetic request and record its event.

Probe requests: launch (default), intent:<Name>, audio-player, playback-controller,
session-ended, system-exception, unknown.

Environment: DATABASE_URL, MIGRATION_PATH (empty = embedded migrations), COMMS_URL,
DISPATCH_EVENT_SUBJECT, DISPATCH_RECENT_LIMIT, DISPATCH_REQUEST_TIMEOUT, LOG_LEVEL.
`

func main() {
	args := os.Args[1:]
	cmd := ""
	if len(args) > 0 && args[0] != "" {
		cmd = args[0]
	}
	arg := ""
	if len(args) > 1 {
		arg = args[1]
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("skill-dispatcher: load config: %v", err)
	}
	monitor.SetupLogging(cfg.LogLevel, os.Stderr)

	switch cmd {
	case "migrate":
		switch arg {
		case "up":
			err = withPool(cfg, func(ctx context.Context, pool *pgxpool.Pool) error {
				return migrateUp(ctx, cfg, pool)
			})
		case "down":
			err = withPool(cfg, func(ctx context.Context, pool *pgxpool.Pool) error {
				return db.MigrationDown(ctx, pool, os.Stdout)
			})
		case "status":
			err = withPool(cfg, func(ctx context.Context, pool *pgxpool.Pool) error {
				return db.MigrationStatus(ctx, pool, cfg.MigrationPath, os.Stdout)
			})
		case "":
			log.Fatalf("skill-dispatcher migrate: require subcommand (up, down, status)")
		default:
			log.Fatalf("skill-dispatcher migrate: unknown subcommand %q (use up, down, status)", arg)
		}
	case "ensure-db":
		err = runEnsureDB(cfg, arg)
	case "clear":
		err = withPool(cfg, func(ctx context.Context, pool *pgxpool.Pool) error {
			return db.ClearDispatchLog(ctx, pool)
		})
	case "recent":
		err = runRecent(cfg, arg)
	case "tail":
		err = runTail(cfg, arg)
	case "probe":
		err = runProbe(cfg, arg)
	case "help", "-h", "--help", "":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q.\n%s", cmd, usage)
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("skill-dispatcher %s: %v", cmd, err)
	}
}

// withPool validates DB config, opens a pool for one command and closes it afterwards.
func withPool(cfg *config.Config, fn func(ctx context.Context, pool *pgxpool.Pool) error) error {
	if err := cfg.ValidateForDB(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := migrateUp(ctx, cfg, pool); err != nil {
			return err
		}
	}
	return fn(ctx, pool)
}

func migrateUp(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) error {
	migrationSQL, err := db.LoadMigrationFiles(cfg.MigrationPath)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	if err := db.RunMigrations(ctx, pool, migrationSQL); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func runEnsureDB(cfg *config.Config, dbName string) error {
	if dbName == "" {
		dbName = "skills_test"
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	targetURL, err := db.WithDatabaseName(cfg.DatabaseURL, dbName)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	created, err := db.EnsureDatabase(ctx, targetURL)
	if err != nil {
		return err
	}
	if created {
		fmt.Printf("Database %q created.\n", dbName)
	} else {
		fmt.Printf("Database %q is ready.\n", dbName)
	}
	return nil
}

func parseLimit(arg string, fallback int) (int, error) {
	if arg == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid count %q: must be a positive integer", arg)
	}
	return n, nil
}

func runRecent(cfg *config.Config, arg string) error {
	limit, err := parseLimit(arg, cfg.RecentLimit)
	if err != nil {
		return err
	}
	return withPool(cfg, func(ctx context.Context, pool *pgxpool.Pool) error {
		repo := db.NewRepository(pool)
		records, err := repo.ListRecentDispatches(ctx, limit)
		if err != nil {
			return err
		}
		if err := monitor.PrintRecent(os.Stdout, records); err != nil {
			return err
		}
		counts, err := repo.CountByRoute(ctx)
		if err != nil {
			return err
		}
		return monitor.PrintRouteCounts(os.Stdout, counts)
	})
}

func runTail(cfg *config.Config, subject string) error {
	if err := cfg.ValidateForTail(); err != nil {
		return err
	}
	if subject == "" {
		subject = cfg.EventSubject
	}
	nc, err := commsutil.Connect(cfg.COMMSURL, cfg.COMMSName+"-tail", commsutil.ConnectOptions{})
	if err != nil {
		return err
	}
	defer nc.Drain()

	ctx, cancel := monitor.WithShutdownSignal(context.Background())
	defer cancel()
	return monitor.Tail(ctx, nc, subject, os.Stdout)
}

// probeEnvelope builds a synthetic envelope for the probe command.
func probeEnvelope(probe string) (*skill.Envelope, error) {
	base := skill.RequestBase{RequestID: "probe-" + uuid.NewString(), Locale: "en-US"}
	var req skill.Request

	switch name, intent, _ := strings.Cut(probe, ":"); name {
	case "", "launch":
		base.Type = "LaunchRequest"
		req = &skill.LaunchRequest{RequestBase: base}
	case "intent":
		if intent == "" {
			return nil, fmt.Errorf("probe intent requires a name (intent:<Name>)")
		}
		base.Type = "IntentRequest"
		req = &skill.IntentRequest{RequestBase: base, Intent: skill.Intent{Name: intent}}
	case "audio-player":
		base.Type = "AudioPlayer.PlaybackStarted"
		req = &skill.AudioPlayerRequest{RequestBase: base}
	case "playback-controller":
		base.Type = "PlaybackController.PlayCommandIssued"
		req = &skill.PlaybackControllerRequest{RequestBase: base}
	case "session-ended":
		base.Type = "SessionEndedRequest"
		req = &skill.SessionEndedRequest{RequestBase: base, Reason: "USER_INITIATED"}
	case "system-exception":
		base.Type = "System.ExceptionEncountered"
		req = &skill.SystemExceptionRequest{RequestBase: base}
	case "unknown":
		base.Type = "Probe.Unrecognized"
		req = &skill.UnknownRequest{RequestBase: base}
	default:
		return nil, fmt.Errorf("unknown probe request %q", probe)
	}

	return &skill.Envelope{
		Version: "1.0",
		Session: &skill.Session{New: true, SessionID: "probe-session"},
		Request: req,
	}, nil
}

// runProbe sends one envelope through a Dispatcher with an empty registry, so the
// global default answers, and publishes the event to COMMS and the dispatch log.
func runProbe(cfg *config.Config, probe string) error {
	env, err := probeEnvelope(probe)
	if err != nil {
		return err
	}
	if err := cfg.ValidateForTail(); err != nil {
		return err
	}
	nc, err := commsutil.Connect(cfg.COMMSURL, cfg.COMMSName+"-probe", commsutil.ConnectOptions{})
	if err != nil {
		return err
	}
	defer nc.Close()

	return withPool(cfg, func(ctx context.Context, pool *pgxpool.Pool) error {
		pub := events.NewMultiPublisher(
			events.NewCommsPublisher(nc, &events.CommsPublisherOpts{BaseSubject: cfg.EventSubject}),
			events.NewRepositoryPublisher(db.NewRepository(pool)),
		)
		disp := dispatcher.NewDispatcher(dispatcher.NewDispatcherParams{Publisher: pub})

		ictx := &skill.InvocationContext{RequestID: env.RequestID(), FunctionName: cfg.COMMSName}
		if deadline, ok := ctx.Deadline(); ok {
			ictx.Deadline = deadline
		}
		resp, err := disp.Dispatch(ctx, env, ictx)
		if err != nil {
			return err
		}
		if err := nc.Flush(); err != nil {
			return fmt.Errorf("flush events: %w", err)
		}

		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return err
		}
		fmt.Printf("kind=%s route=%s\n%s\n", env.Kind(), disp.Resolve(env), out)
		return nil
	})
}
