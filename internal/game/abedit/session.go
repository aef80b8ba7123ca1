// Package abedit implements the modal ability editor. A session owns a
// draft copy of one ability and interprets each input line against its
// current state; the registry record is only touched on commit.
package abedit

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ravenmud/mud/internal/game/ability"
	"github.com/ravenmud/mud/internal/game/world"
)

// SaveFunc persists the whole registry and reports how many records were
// written.
type SaveFunc func() (int, error)

// Session is one editor attachment to one ability.
type Session struct {
	id       uuid.UUID
	state    State
	draft    *ability.Ability
	original *ability.Ability
	dirty    bool
	done     bool

	reg     *ability.Registry
	guard   *Guard
	world   *world.Index
	manuals *ability.ManualRegistry
	save    SaveFunc
	logger  *zap.Logger

	out strings.Builder

	// Sub-entity staging. Session-local; a half-entered affect or cost
	// chain never touches the draft until its last step commits.
	pendingAffect ability.Affect
	pendingCost   ability.Cost
	pendingDam    ability.Damage
	pendingMsg    int
	pendingMsgTo  int
	pendingStun   int
	pendingMisc   int
}

// Deps bundles the collaborators a session needs.
type Deps struct {
	Registry *ability.Registry
	Guard    *Guard
	World    *world.Index
	Manuals  *ability.ManualRegistry
	Save     SaveFunc
	Logger   *zap.Logger
}

// NewSession attaches an editor to an existing registry record. The session
// edits a deep copy; the record itself changes only on commit.
//
// Precondition: ab must be a registry-resident ability.
// Postcondition: On nil error the ability id is locked until the session ends.
func NewSession(deps Deps, ab *ability.Ability) (*Session, error) {
	sid := uuid.New()
	if err := deps.Guard.Acquire(ab.ID, sid); err != nil {
		return nil, err
	}
	return &Session{
		id:       sid,
		state:    StateMain,
		draft:    ab.Clone(),
		original: ab,
		reg:      deps.Registry,
		guard:    deps.Guard,
		world:    deps.World,
		manuals:  deps.Manuals,
		save:     deps.Save,
		logger:   deps.Logger,
	}, nil
}

// NewSessionForNew attaches an editor to a brand-new draft with the
// smallest unused id. The draft is not registered until the session's
// confirm-add step accepts it.
func NewSessionForNew(deps Deps, typ ability.Type) (*Session, error) {
	sid := uuid.New()
	id := deps.Registry.NextID()
	if err := deps.Guard.Acquire(id, sid); err != nil {
		return nil, err
	}
	return &Session{
		id:      sid,
		state:   StateMain,
		draft:   ability.New(id, "new ability", typ),
		dirty:   true,
		reg:     deps.Registry,
		guard:   deps.Guard,
		world:   deps.World,
		manuals: deps.Manuals,
		save:    deps.Save,
		logger:  deps.Logger,
	}, nil
}

// AbilityID returns the id the session is attached to.
func (s *Session) AbilityID() int { return s.draft.ID }

// Done reports whether the session has ended.
func (s *Session) Done() bool { return s.done }

// State returns the current editor state. Exposed for tests.
func (s *Session) State() State { return s.state }

// Dirty reports whether the draft has unsaved modifications.
func (s *Session) Dirty() bool { return s.dirty }

// Prompt renders the current menu or prompt without consuming input.
// Used to open the session dialogue.
func (s *Session) Prompt() string {
	s.render()
	return s.flush()
}

// Process interprets one input line against the current state and returns
// the text to show the client. After the session ends further input
// produces no output.
func (s *Session) Process(line string) string {
	if s.done {
		return ""
	}
	input := strings.TrimSpace(line)

	handler, ok := transitions[s.state]
	if !ok {
		// Unknown state is a programming error; recover to the main menu.
		s.logger.Error("ability editor in unknown state",
			zap.Int("state", int(s.state)),
			zap.Int("ability", s.draft.ID),
		)
		s.state = StateMain
		handler = transitions[StateMain]
	}
	handler(s, input)

	if !s.done {
		s.render()
	}
	return s.flush()
}

// Close releases the session's lock without committing. Called on
// disconnect; a clean quit has already released by the time the
// connection closes.
func (s *Session) Close() {
	if !s.done {
		s.end()
	}
}

// end releases the lock and marks the session finished.
func (s *Session) end() {
	s.guard.Release(s.draft.ID, s.id)
	s.done = true
}

// commit applies the draft to the registry record. Brand-new drafts that
// were never confirm-added are not committed.
func (s *Session) commit() {
	if s.original == nil {
		return
	}
	if err := s.reg.Replace(s.draft); err != nil {
		s.logger.Error("committing ability draft",
			zap.Int("ability", s.draft.ID),
			zap.Error(err),
		)
		s.printf("Unable to apply changes: %v", err)
	}
}

func (s *Session) print(text string) {
	s.out.WriteString(text)
	s.out.WriteString("\r\n")
}

func (s *Session) printf(format string, args ...interface{}) {
	s.out.WriteString(strings.TrimRight(fmt.Sprintf(format, args...), "\r\n"))
	s.out.WriteString("\r\n")
}

func (s *Session) flush() string {
	text := s.out.String()
	s.out.Reset()
	return text
}
