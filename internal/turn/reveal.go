// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package turn

import (
	"sync"
	"time"
)

// =============================================================================
// REVEAL TASK
// =============================================================================

// DefaultRevealInterval is the pause between revealed characters.
const DefaultRevealInterval = 15 * time.Millisecond

// revealTask streams a finished reply into the transcript one rune per
// tick. Stopping the task at any point delivers the full text at once;
// the final text is committed exactly once, by whichever of Stop or the
// ticker loop gets there first.
type revealTask struct {
	sessionID string
	messageID string
	text      []rune
	interval  time.Duration

	onTick func(prefix string)
	onDone func(final string)

	stopOnce sync.Once
	doneOnce sync.Once
	stopCh   chan struct{}
}

func newRevealTask(sessionID, messageID, text string, interval time.Duration, onTick func(string), onDone func(string)) *revealTask {
	if interval <= 0 {
		interval = DefaultRevealInterval
	}
	return &revealTask{
		sessionID: sessionID,
		messageID: messageID,
		text:      []rune(text),
		interval:  interval,
		onTick:    onTick,
		onDone:    onDone,
		stopCh:    make(chan struct{}),
	}
}

// run ticks out the text. It exits either after the last rune or as soon
// as Stop closes the stop channel.
func (t *revealTask) run() {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for i := 1; i <= len(t.text); i++ {
		select {
		case <-t.stopCh:
			t.finish()
			return
		case <-ticker.C:
			// A stop racing the ticker wins; no tick is emitted after
			// the final text has been committed.
			select {
			case <-t.stopCh:
				t.finish()
				return
			default:
			}
			t.onTick(string(t.text[:i]))
		}
	}
	t.finish()
}

// finish hands the full text to onDone exactly once, no matter how many
// paths race to end the reveal.
func (t *revealTask) finish() {
	t.doneOnce.Do(func() { t.onDone(string(t.text)) })
}

// Stop ends the reveal early. It commits the final text on the caller's
// goroutine and returns without waiting for the ticker goroutine, so it
// is safe to call from the UI event loop even while that loop is the
// only reader of the reveal's events. Safe to call multiple times and
// after natural completion.
func (t *revealTask) Stop() {
	t.stopOnce.Do(func() { close(t.stopCh) })
	t.finish()
}
