package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/arthur-debert/workbench/pkg/errors"
	"github.com/arthur-debert/workbench/pkg/logging"
	"github.com/arthur-debert/workbench/pkg/provision"
	"github.com/arthur-debert/workbench/pkg/types"
	"github.com/rs/zerolog"
)

// Kind distinguishes package events from repository events
type Kind string

const (
	KindPackage    Kind = "package"
	KindRepository Kind = "repository"
)

// Event is one journal row
type Event struct {
	ID       int64
	RunID    string
	Time     time.Time
	User     string
	Kind     Kind
	Name     string
	Required bool
	Stage    string
	ExitCode int
	Detail   string
	OK       bool
	Outcome  string
}

// Journal appends events of a single run
type Journal struct {
	db     *sql.DB
	runID  string
	now    func() time.Time
	logger zerolog.Logger
}

// Open opens or creates the journal at path. ":memory:" opens a private
// in-memory database.
func Open(path string) (*Journal, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	now := time.Now
	return &Journal{
		db:     db,
		runID:  fmt.Sprintf("%s-%d", now().UTC().Format("20060102T150405"), os.Getpid()),
		now:    now,
		logger: logging.GetLogger("journal"),
	}, nil
}

// RunID identifies the events written through this journal
func (j *Journal) RunID() string {
	return j.runID
}

// Close releases the database
func (j *Journal) Close() error {
	return j.db.Close()
}

// PackageResult records the pipeline outcome of one package
func (j *Journal) PackageResult(ctx context.Context, user, name string, required bool, instErr *types.InstallationError) error {
	ev := Event{
		User:     user,
		Kind:     KindPackage,
		Name:     name,
		Required: required,
		OK:       instErr == nil,
		Outcome:  "installed",
	}
	if instErr != nil {
		ev.Stage = instErr.Stage.String()
		ev.ExitCode = instErr.ExitCode
		ev.Detail = instErr.Stderr
		ev.Outcome = "failed"
	}
	return j.insert(ctx, ev)
}

// TargetResult records the provisioning outcome of one repository
func (j *Journal) TargetResult(ctx context.Context, user string, res provision.Result) error {
	return j.insert(ctx, Event{
		User:    user,
		Kind:    KindRepository,
		Name:    res.Target.Label,
		Detail:  res.Target.Destination,
		OK:      true,
		Outcome: string(res.Outcome),
	})
}

// TargetFailure records a repository that could not be fetched
func (j *Journal) TargetFailure(ctx context.Context, user, label string, cause error) error {
	return j.insert(ctx, Event{
		User:    user,
		Kind:    KindRepository,
		Name:    label,
		Detail:  cause.Error(),
		OK:      false,
		Outcome: "failed",
	})
}

// DefaultLimit is the number of events Recent returns for a non-positive limit
const DefaultLimit = 50

// Recent returns up to limit events, newest first
func (j *Journal) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, run_id, created_at, user_login, kind, name, required, stage, exit_code, detail, ok, outcome
		FROM events
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrJournal, "failed to query journal")
	}
	defer func() { _ = rows.Close() }()

	var events []Event
	for rows.Next() {
		var (
			ev      Event
			created string
			kind    string
		)
		if err := rows.Scan(&ev.ID, &ev.RunID, &created, &ev.User, &kind, &ev.Name,
			&ev.Required, &ev.Stage, &ev.ExitCode, &ev.Detail, &ev.OK, &ev.Outcome); err != nil {
			return nil, errors.Wrap(err, errors.ErrJournal, "failed to read journal row")
		}
		ev.Kind = Kind(kind)
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			ev.Time = t
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrJournal, "failed to read journal")
	}
	return events, nil
}

func (j *Journal) insert(ctx context.Context, ev Event) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO events (run_id, created_at, user_login, kind, name, required, stage, exit_code, detail, ok, outcome)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.runID, j.now().UTC().Format(time.RFC3339Nano), ev.User, string(ev.Kind), ev.Name,
		ev.Required, ev.Stage, ev.ExitCode, ev.Detail, ev.OK, ev.Outcome)
	if err != nil {
		j.logger.Debug().Err(err).Str("name", ev.Name).Msg("Journal insert failed")
		return errors.Wrapf(err, errors.ErrJournal, "failed to record %s %s", ev.Kind, ev.Name)
	}
	return nil
}
