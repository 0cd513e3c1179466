// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package turn

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/docchat/docchat-tui/internal/model"
	"github.com/docchat/docchat-tui/internal/sanitize"
	"github.com/docchat/docchat-tui/internal/store"
)

// =============================================================================
// STATE AND ERRORS
// =============================================================================

// State tracks where the orchestrator is in the request/response cycle.
type State int

const (
	// StateIdle means no cycle is in flight; submissions are accepted.
	StateIdle State = iota
	// StateRequesting means the backend call is in flight.
	StateRequesting
	// StateRevealing means the reply arrived and is being typed out.
	StateRevealing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateRevealing:
		return "revealing"
	default:
		return "unknown"
	}
}

var (
	// ErrBusy is returned when a submission arrives while a cycle is in
	// flight. Submissions are rejected, never queued.
	ErrBusy = errors.New("a response is already in progress")

	// ErrEmptyPrompt is returned for whitespace-only submissions.
	ErrEmptyPrompt = errors.New("prompt is empty")
)

// FailureNotice is the user-facing message shown when a cycle fails.
const FailureNotice = "Something went wrong while fetching the answer."

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Generator is the backend surface the orchestrator needs. *api.Client
// satisfies it.
type Generator interface {
	Generate(ctx context.Context, model, prompt, chatContext string) (string, error)
}

// Events carries the orchestrator's asynchronous notifications. All
// callbacks fire in order on a single dispatcher goroutine, never on the
// goroutine that called Submit, FinishNow, or Shutdown — so a callback
// may safely deliver into an event loop that is itself blocked inside
// one of those calls. Nil callbacks are skipped.
type Events struct {
	// RevealTick delivers the currently revealed prefix of the reply.
	RevealTick func(sessionID, messageID, prefix string)
	// TurnDone fires once per cycle with the committed final text.
	TurnDone func(sessionID, messageID, final string)
	// TurnFailed fires when the backend call failed and the placeholder
	// was removed.
	TurnFailed func(sessionID string, err error)
}

// Options configures an Orchestrator.
type Options struct {
	// Model is the backend model name sent with each request.
	Model string
	// RequestTimeout bounds the backend call.
	RequestTimeout time.Duration
	// RevealInterval is the pause between revealed characters.
	RevealInterval time.Duration
	// Events receives cycle notifications.
	Events Events
}

// Orchestrator drives one request/response cycle at a time: append the
// user message and a placeholder, call the backend with the prior
// conversation as context, clean the reply, and reveal it.
type Orchestrator struct {
	store   *store.Store
	gen     Generator
	cleaner *sanitize.Sanitizer
	opts    Options

	mu     sync.Mutex
	state  State
	reveal *revealTask
	cancel context.CancelFunc

	// events carries notification callbacks to the dispatcher goroutine.
	// The buffer absorbs several seconds of reveal ticks, so enqueueing
	// never blocks a stalled consumer's own cancellation call.
	events chan func()

	stagedExcerpt string
	stagedLabel   string
}

// New creates an orchestrator. A nil cleaner falls back to the default
// phrase set.
func New(st *store.Store, gen Generator, cleaner *sanitize.Sanitizer, opts Options) *Orchestrator {
	if cleaner == nil {
		cleaner = sanitize.Default()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}
	if opts.RevealInterval <= 0 {
		opts.RevealInterval = DefaultRevealInterval
	}
	o := &Orchestrator{
		store:   st,
		gen:     gen,
		cleaner: cleaner,
		opts:    opts,
		state:   StateIdle,
		events:  make(chan func(), eventQueueSize),
	}
	go o.dispatch()
	return o
}

// eventQueueSize bounds pending notifications. At the default reveal
// cadence this is several seconds of ticks.
const eventQueueSize = 256

// dispatch delivers queued notifications in order for the lifetime of
// the orchestrator.
func (o *Orchestrator) dispatch() {
	for fn := range o.events {
		fn()
	}
}

// emit queues a notification for the dispatcher goroutine.
func (o *Orchestrator) emit(fn func()) {
	o.events <- fn
}

// State returns the current cycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Busy reports whether a cycle is in flight.
func (o *Orchestrator) Busy() bool {
	return o.State() != StateIdle
}

// =============================================================================
// DOCUMENT CONTEXT STAGING
// =============================================================================

// StageContext stores a document excerpt to be folded into the next
// submission's outbound prompt. Staging replaces any previous excerpt;
// the excerpt is consumed by exactly one submission.
func (o *Orchestrator) StageContext(excerpt, label string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stagedExcerpt = excerpt
	o.stagedLabel = label
}

// StagedLabel returns the display label of the staged document, or ""
// when nothing is staged.
func (o *Orchestrator) StagedLabel() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stagedLabel
}

// ClearStaged drops any staged document excerpt.
func (o *Orchestrator) ClearStaged() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stagedExcerpt = ""
	o.stagedLabel = ""
}

// =============================================================================
// SUBMISSION
// =============================================================================

// Submit starts a request/response cycle for the active session. The
// trimmed prompt is appended as a user message together with an empty
// assistant placeholder, then the backend call runs in the background.
// Returns ErrEmptyPrompt for whitespace-only input and ErrBusy while a
// cycle is already in flight.
func (o *Orchestrator) Submit(prompt string) error {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return ErrEmptyPrompt
	}

	o.mu.Lock()
	if o.state != StateIdle {
		o.mu.Unlock()
		return ErrBusy
	}

	sessionID := o.store.ActiveID()
	sess := o.store.Session(sessionID)
	if sess == nil {
		o.mu.Unlock()
		return errors.New("no active session")
	}

	prior := sess.Messages
	userMsg := model.NewUserMessage(trimmed)
	placeholder := model.NewAssistantPlaceholder()
	o.store.ReplaceMessages(sessionID, append(model.CloneMessages(prior), userMsg, placeholder))

	chatContext := o.buildContext(prior)

	// A staged excerpt is folded into the outbound prompt only; the
	// transcript shows what the user actually typed.
	outbound := trimmed
	if o.stagedExcerpt != "" {
		outbound = synthesizePrompt(o.stagedExcerpt, trimmed)
		o.stagedExcerpt = ""
		o.stagedLabel = ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), o.opts.RequestTimeout)
	o.cancel = cancel
	o.state = StateRequesting
	o.mu.Unlock()

	go o.run(ctx, cancel, sessionID, placeholder.ID, outbound, chatContext)
	return nil
}

// run performs the backend call and hands the cleaned reply to the
// reveal task.
func (o *Orchestrator) run(ctx context.Context, cancel context.CancelFunc, sessionID, messageID, prompt, chatContext string) {
	defer cancel()

	reply, err := o.gen.Generate(ctx, o.opts.Model, prompt, chatContext)
	if err != nil {
		o.fail(sessionID, messageID, err)
		return
	}

	cleaned := o.cleaner.Clean(reply)

	o.mu.Lock()
	o.state = StateRevealing
	task := newRevealTask(sessionID, messageID, cleaned, o.opts.RevealInterval,
		func(prefix string) {
			o.emit(func() {
				if o.opts.Events.RevealTick != nil {
					o.opts.Events.RevealTick(sessionID, messageID, prefix)
				}
			})
		},
		func(final string) {
			o.commit(sessionID, messageID, final)
		})
	o.reveal = task
	o.mu.Unlock()

	task.run()
}

// fail removes the placeholder from the originating session and reports
// the error.
func (o *Orchestrator) fail(sessionID, messageID string, err error) {
	o.mu.Lock()
	o.removeMessageLocked(sessionID, messageID)
	o.state = StateIdle
	o.cancel = nil
	o.mu.Unlock()

	o.emit(func() {
		if o.opts.Events.TurnFailed != nil {
			o.opts.Events.TurnFailed(sessionID, err)
		}
	})
}

// commit writes the final reply into the originating session's
// placeholder. Runs exactly once per cycle, whether the reveal finished
// naturally or was stopped early.
func (o *Orchestrator) commit(sessionID, messageID, final string) {
	o.mu.Lock()
	if sess := o.store.Session(sessionID); sess != nil {
		if msg := sess.MessageByID(messageID); msg != nil {
			msg.Content = final
			o.store.ReplaceMessages(sessionID, sess.Messages)
		}
	}
	o.state = StateIdle
	o.reveal = nil
	o.cancel = nil
	o.mu.Unlock()

	o.emit(func() {
		if o.opts.Events.TurnDone != nil {
			o.opts.Events.TurnDone(sessionID, messageID, final)
		}
	})
}

// removeMessageLocked drops one message from a session. Caller must
// hold o.mu.
func (o *Orchestrator) removeMessageLocked(sessionID, messageID string) {
	sess := o.store.Session(sessionID)
	if sess == nil {
		return
	}
	kept := make([]*model.Message, 0, len(sess.Messages))
	for _, msg := range sess.Messages {
		if msg.ID != messageID {
			kept = append(kept, msg)
		}
	}
	if len(kept) != len(sess.Messages) {
		o.store.ReplaceMessages(sessionID, kept)
	}
}

// FinishNow ends an in-progress reveal and commits the full reply to
// the originating session immediately. Called when the user skips the
// animation or switches sessions mid-reveal. No-op while requesting or
// idle.
func (o *Orchestrator) FinishNow() {
	o.mu.Lock()
	task := o.reveal
	o.mu.Unlock()

	if task != nil {
		task.Stop()
	}
}

// Shutdown aborts any in-flight backend call and finishes any reveal.
func (o *Orchestrator) Shutdown() {
	o.mu.Lock()
	cancel := o.cancel
	o.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	o.FinishNow()
}

// =============================================================================
// PROMPT AND CONTEXT ASSEMBLY
// =============================================================================

// buildContext renders the prior conversation as labeled turns joined by
// blank lines. Assistant turns are cleaned so instruction echoes from
// earlier replies never feed back into the next request.
func (o *Orchestrator) buildContext(messages []*model.Message) string {
	parts := make([]string, 0, len(messages))
	for _, msg := range messages {
		content := msg.Content
		if msg.Role == model.RoleAssistant {
			content = o.cleaner.Clean(content)
		}
		if strings.TrimSpace(content) == "" {
			continue
		}
		parts = append(parts, msg.Role.ContextLabel()+": "+content)
	}
	return strings.Join(parts, "\n\n")
}

// synthesizePrompt folds a staged document excerpt into the outbound
// prompt. The instruction phrases here are the ones the sanitizer strips
// back out of replies that echo them.
func synthesizePrompt(excerpt, question string) string {
	return excerpt + "\n\n" + strings.Join(sanitize.DefaultPhrases, " ") + " " + question
}
