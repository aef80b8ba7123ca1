// Package handlers contains the session command flows served over the
// Telnet frontend.
package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ravenmud/mud/internal/frontend/telnet"
	"github.com/ravenmud/mud/internal/game/abedit"
	"github.com/ravenmud/mud/internal/game/ability"
	"github.com/ravenmud/mud/internal/game/world"
)

// AbilityHandler serves the ability editing command set for one connection:
// save, stat, list, new, and opening an editor session on an ability.
type AbilityHandler struct {
	reg     *ability.Registry
	guard   *abedit.Guard
	world   *world.Index
	manuals *ability.ManualRegistry
	path    string
	logger  *zap.Logger
}

// NewAbilityHandler creates the handler.
//
// Precondition: all collaborators must be non-nil; path is the abilities
// store written by the save command.
func NewAbilityHandler(
	reg *ability.Registry,
	guard *abedit.Guard,
	idx *world.Index,
	manuals *ability.ManualRegistry,
	path string,
	logger *zap.Logger,
) *AbilityHandler {
	return &AbilityHandler{
		reg:     reg,
		guard:   guard,
		world:   idx,
		manuals: manuals,
		path:    path,
		logger:  logger,
	}
}

func (h *AbilityHandler) deps() abedit.Deps {
	return abedit.Deps{
		Registry: h.reg,
		Guard:    h.guard,
		World:    h.world,
		Manuals:  h.manuals,
		Save:     func() (int, error) { return h.reg.Save(h.path) },
		Logger:   h.logger,
	}
}

// HandleSession runs the command loop for one connection. An open editor
// session consumes every line until it ends; its lock is released on
// disconnect.
func (h *AbilityHandler) HandleSession(ctx context.Context, conn *telnet.Conn) error {
	_ = conn.WriteLine(telnet.Colorize(telnet.Cyan, "Ability editor."))
	_ = conn.WriteLine("Type 'help' for the command list.")

	var session *abedit.Session
	defer func() {
		if session != nil {
			session.Close()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if session == nil {
			if err := conn.WritePrompt("abedit> "); err != nil {
				return err
			}
		}

		line, err := conn.ReadLine()
		if err != nil {
			return err
		}

		if session != nil {
			if err := conn.WritePrompt(session.Process(line)); err != nil {
				return err
			}
			if session.Done() {
				session = nil
			}
			continue
		}

		quit := false
		session, quit = h.dispatch(conn, line)
		if quit {
			return nil
		}
		if session != nil {
			if err := conn.WritePrompt(session.Prompt()); err != nil {
				return err
			}
		}
	}
}

// dispatch handles one top-level command line. It returns a newly opened
// editor session, if any, and whether the connection should close.
func (h *AbilityHandler) dispatch(conn *telnet.Conn, line string) (*abedit.Session, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		h.printSyntax(conn)
		return nil, false
	}
	cmd := strings.ToLower(fields[0])
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))

	switch cmd {
	case "quit", "exit":
		_ = conn.WriteLine("Goodbye.")
		return nil, true

	case "help":
		h.printSyntax(conn)

	case "save":
		count, err := h.reg.Save(h.path)
		if err != nil {
			_ = conn.WriteLine("Unable to save abilities: " + err.Error())
			return nil, false
		}
		_ = conn.WriteLine(telnet.Colorf(telnet.Green, "Saved %d abilities to file.", count))

	case "stat":
		if rest == "" {
			h.printSyntax(conn)
			return nil, false
		}
		ab, ok := h.find(rest)
		if !ok {
			_ = conn.WriteLine("That ability name or number does not exist.")
			return nil, false
		}
		_ = conn.WritePrompt(renderStat(ab))

	case "list":
		_ = conn.WritePrompt(renderList(h.reg.All()))

	case "new":
		typ := ability.TypeSpell
		if strings.EqualFold(rest, "skill") {
			typ = ability.TypeSkill
		}
		session, err := abedit.NewSessionForNew(h.deps(), typ)
		if err != nil {
			_ = conn.WriteLine("Unable to open the editor: " + err.Error())
			return nil, false
		}
		return session, false

	default:
		ab, ok := h.find(strings.TrimSpace(line))
		if !ok {
			h.printSyntax(conn)
			return nil, false
		}
		session, err := abedit.NewSession(h.deps(), ab)
		if err != nil {
			if errors.Is(err, abedit.ErrLocked) {
				_ = conn.WriteLine("That ability is currently being edited by someone else.")
			} else {
				_ = conn.WriteLine("Unable to open the editor: " + err.Error())
			}
			return nil, false
		}
		return session, false
	}
	return nil, false
}

// find resolves an ability by id or by case-insensitive name.
func (h *AbilityHandler) find(arg string) (*ability.Ability, bool) {
	if id, err := strconv.Atoi(arg); err == nil {
		return h.reg.GetByID(id)
	}
	return h.reg.GetByName(arg)
}

func (h *AbilityHandler) printSyntax(conn *telnet.Conn) {
	_ = conn.WriteLine("Syntax:")
	_ = conn.WriteLine(" save                       - save all abilities to file")
	_ = conn.WriteLine(" stat <ability number/name> - display the ability information")
	_ = conn.WriteLine(" list                       - list all abilities")
	_ = conn.WriteLine(" new [spell|skill]          - create a new ability")
	_ = conn.WriteLine(" <ability number/name>      - open the editor on an ability")
	_ = conn.WriteLine(" quit                       - close the connection")
}
