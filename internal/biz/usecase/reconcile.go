package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rovi1013/coap-telegram-gateway/internal/biz/domain"
	"github.com/rovi1013/coap-telegram-gateway/internal/biz/repo"
	"github.com/rovi1013/coap-telegram-gateway/internal/metrics"
)

// ErrUpstreamFetch marks a round aborted because the feed batch could not
// be retrieved. No state is mutated in that case.
var ErrUpstreamFetch = errors.New("upstream fetch failed")

// Notification is a short confirmation/error text queued for one
// subscriber during a round.
type Notification struct {
	SenderID string
	Text     string
}

// Notifier dispatches queued notifications. Delivery is best-effort and
// must never fail the round.
type Notifier interface {
	Dispatch(notes []Notification)
}

// ReconcilerConfig carries the engine's tunables
type ReconcilerConfig struct {
	// Password is the shared secret gating config commands
	Password string
	// FetchTimeout bounds the feed fetch; a hung upstream fails the
	// round instead of wedging the engine
	FetchTimeout time.Duration
}

// Reconciler runs the inbound update reconciliation: it pulls one batch
// from the feed, filters already-applied messages, interprets the command
// language, reconciles the subscriber roster and config store, and
// returns the compact delta encoding.
//
// Registry, settings and filter are owned exclusively by the engine.
// They carry no internal locking; the round mutex serializes every
// trigger, fetch to response.
type Reconciler struct {
	feed     repo.FeedRepo
	archive  repo.ArchiveRepo
	notifier Notifier

	registry *domain.SubscriberRegistry
	settings *domain.ConfigStore
	filter   *domain.DedupFilter

	cfg ReconcilerConfig
	now func() time.Time

	mu sync.Mutex
}

// NewReconciler creates the engine. archive may be nil to disable the
// update log.
func NewReconciler(
	feed repo.FeedRepo,
	archive repo.ArchiveRepo,
	notifier Notifier,
	registry *domain.SubscriberRegistry,
	settings *domain.ConfigStore,
	filter *domain.DedupFilter,
	cfg ReconcilerConfig,
) *Reconciler {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 10 * time.Second
	}
	return &Reconciler{
		feed:     feed,
		archive:  archive,
		notifier: notifier,
		registry: registry,
		settings: settings,
		filter:   filter,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Run executes one reconciliation round and returns the compact encoding
// of the round's changes, or the "No Updates" sentinel.
func (r *Reconciler) Run(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	round := uuid.NewString()[:8]

	fetchCtx, cancel := context.WithTimeout(ctx, r.cfg.FetchTimeout)
	defer cancel()

	batch, err := r.feed.FetchBatch(fetchCtx)
	if err != nil {
		metrics.ReconcileRounds.WithLabelValues("fetch_error").Inc()
		fmt.Printf("[Engine] round %s: fetch failed: %v\n", round, err)
		return "", fmt.Errorf("%w: %v", ErrUpstreamFetch, err)
	}
	fmt.Printf("[Engine] round %s: fetched %d messages\n", round, len(batch))

	var (
		changes    domain.ChangeSet
		notes      []Notification
		candidates []domain.Subscriber
		appliedIDs []string
	)
	candidateSeen := make(map[string]bool)

	for i := range batch {
		msg := batch[i]
		metrics.FeedMessages.Inc()

		if msg.IsEmpty() {
			fmt.Printf("[Engine] round %s: skipping empty message from %s\n", round, msg.SenderID)
			r.record(ctx, msg, false)
			continue
		}
		if r.filter.AlreadyApplied(msg.MessageID) {
			fmt.Printf("[Engine] round %s: duplicate message %s ignored\n", round, msg.MessageID)
			continue
		}

		// Registration candidate; admission is deferred until all
		// removals in the batch have been applied.
		if msg.SenderID != "" && msg.SenderName != "" &&
			!r.registry.Contains(msg.SenderID) && !candidateSeen[msg.SenderID] {
			candidateSeen[msg.SenderID] = true
			candidates = append(candidates, domain.Subscriber{ID: msg.SenderID, Name: msg.SenderName})
		}

		applied := false
		cmd := domain.ParseCommand(msg.Text)
		switch cmd.Kind {
		case domain.CommandRemoveSelf:
			if msg.SenderID == "" {
				break
			}
			if r.registry.Remove(msg.SenderID) {
				changes.Removed = append(changes.Removed, msg.SenderID)
				appliedIDs = append(appliedIDs, msg.MessageID)
				applied = true
				notes = append(notes, Notification{msg.SenderID, "You have been removed"})
			} else {
				notes = append(notes, Notification{msg.SenderID, "You are not in the list"})
			}

		case domain.CommandSetConfig:
			if cmd.Password != r.cfg.Password {
				metrics.PasswordRejections.Inc()
				fmt.Printf("[Engine] round %s: rejected config command from %s: wrong password\n", round, msg.SenderID)
				break
			}
			if r.filter.BeforeWatermark(msg.SentAt) {
				// Already seen; replayed commands stay inert.
				break
			}
			res := r.settings.Stage(cmd.Setting, cmd.Value)
			switch res.Outcome {
			case domain.SetInvalid:
				notes = append(notes, Notification{msg.SenderID, "Invalid config: " + res.Reason})
			case domain.SetUpdated:
				appliedIDs = append(appliedIDs, msg.MessageID)
				applied = true
				fmt.Printf("[Engine] round %s: staged %s %s -> %s\n", round, cmd.Setting, res.Old, res.New)
			}
		}

		r.record(ctx, msg, applied)
	}

	// Admit registrations in feed order, up to the freed capacity
	for _, cand := range candidates {
		switch r.registry.TryAdd(cand.ID, cand.Name) {
		case domain.Admitted:
			changes.Added = append(changes.Added, cand)
			notes = append(notes, Notification{cand.ID, "You have been registered"})
		case domain.CapacityReached:
			notes = append(notes, Notification{cand.ID, "Chat limit reached"})
		}
	}

	// Notifications go out whether or not the round commits
	if len(notes) > 0 && r.notifier != nil {
		r.notifier.Dispatch(notes)
	}

	if !r.settings.HasStaged() && changes.Empty() {
		metrics.ReconcileRounds.WithLabelValues("no_updates").Inc()
		return domain.NoUpdates, nil
	}

	// Commit: the one place live config values change. The watermark
	// only advances when something genuinely changed, so replayed empty
	// polls stay inert.
	changes.Interval, changes.Feedback = r.settings.Commit()
	r.filter.MarkApplied(appliedIDs)
	r.filter.Advance(r.now())

	payload := changes.Encode()
	metrics.ReconcileRounds.WithLabelValues("changes").Inc()
	fmt.Printf("[Engine] round %s: committed, payload %q\n", round, payload)
	return payload, nil
}

func (r *Reconciler) record(ctx context.Context, msg domain.InboundMessage, applied bool) {
	if r.archive == nil {
		return
	}
	if err := r.archive.Record(ctx, msg, applied); err != nil {
		fmt.Printf("[Engine] failed to archive message %s: %v\n", msg.MessageID, err)
	}
}
