package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/command"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// consolePolicy asks a human for each action at a command prompt.
type consolePolicy struct {
	in       *bufio.Reader
	out      io.Writer
	commands *command.Registry
}

func newConsolePolicy(in io.Reader, out io.Writer) *consolePolicy {
	return &consolePolicy{in: bufio.NewReader(in), out: out, commands: command.DefaultRegistry()}
}

// ChooseAction prompts until an action command is entered. Informational
// commands are answered in place. End of input selects a basic attack.
func (p *consolePolicy) ChooseAction(actor, opponent *combat.Combatant, _ dice.Source) combat.ActionType {
	for {
		fmt.Fprintf(p.out, "%s > ", actor.Name)
		line, err := p.in.ReadString('\n')
		parsed := command.Parse(line)
		if parsed.Command == "" {
			if err != nil {
				fmt.Fprintln(p.out)
				return combat.ActionBasic
			}
			continue
		}
		cmd, ok := p.commands.Resolve(parsed.Command)
		if !ok {
			if matches := p.commands.Complete(parsed.Command); len(matches) > 1 {
				fmt.Fprintf(p.out, "%q is ambiguous: %s\n", parsed.Command, strings.Join(matches, ", "))
			} else {
				fmt.Fprintf(p.out, "unknown command %q; type help\n", parsed.Command)
			}
			continue
		}
		switch cmd.Handler {
		case command.HandlerAttack:
			return combat.ActionBasic
		case command.HandlerSpecial:
			return combat.ActionSpecial
		case command.HandlerStatus:
			p.status(actor)
			p.status(opponent)
		case command.HandlerEquipment:
			p.equipment(actor)
		case command.HandlerHelp:
			p.help(actor, parsed.Args)
		}
	}
}

func (p *consolePolicy) status(c *combat.Combatant) {
	fmt.Fprintf(p.out, "  %s the %s, level %d: %d/%d hp", c.Name, c.Archetype, c.Level, c.Health, c.MaxHealth)
	if c.HasMana() {
		fmt.Fprintf(p.out, ", %d/%d mana", c.Mana, c.MaxMana)
	}
	fmt.Fprintf(p.out, ", attack %d\n", c.AttackPower)
	for _, id := range c.Conditions().IDs() {
		fmt.Fprintf(p.out, "    %s (%d turns)\n", id, c.Conditions().Remaining(id))
	}
}

func (p *consolePolicy) equipment(c *combat.Combatant) {
	if len(c.Equipment) == 0 {
		fmt.Fprintln(p.out, "  nothing equipped")
		return
	}
	for _, it := range c.Equipment {
		fmt.Fprintf(p.out, "  %s (+%d attack, +%d health)\n", it.Name, it.AttackBonus, it.HealthBonus)
	}
}

var helpCategories = []string{command.CategoryAction, command.CategoryInfo, command.CategorySystem}

// help lists every command by category, or just the commands named in topics.
func (p *consolePolicy) help(actor *combat.Combatant, topics []string) {
	if len(topics) > 0 {
		for _, topic := range topics {
			cmd, ok := p.commands.Resolve(topic)
			if !ok {
				fmt.Fprintf(p.out, "  no help for %q\n", topic)
				continue
			}
			p.helpLine(actor, cmd)
		}
		return
	}
	for _, category := range helpCategories {
		fmt.Fprintf(p.out, "  %s:\n", category)
		for _, cmd := range p.commands.InCategory(category) {
			p.helpLine(actor, cmd)
		}
	}
}

func (p *consolePolicy) helpLine(actor *combat.Combatant, cmd *command.Command) {
	help := cmd.Help
	if cmd.Handler == command.HandlerSpecial {
		help = fmt.Sprintf("%s (%s)", help, actor.Def().Special.Name)
	}
	fmt.Fprintf(p.out, "    %-10s %-12s %s\n", cmd.Name, strings.Join(cmd.Aliases, ","), help)
}

// consoleRenderer prints battle events as plain text.
type consoleRenderer struct {
	out io.Writer
}

func (r consoleRenderer) Notify(e combat.Event) {
	switch e.Kind {
	case combat.EventBattleStarted:
		fmt.Fprintf(r.out, "\n=== %s vs %s: %s moves first ===\n", e.Actor, e.Target, e.Actor)
	case combat.EventStatusTick:
		fmt.Fprintf(r.out, "%s suffers %d from %s (%d turns left)\n", e.Actor, e.Amount, e.Name, e.Remaining)
	case combat.EventEffectExpired:
		fmt.Fprintf(r.out, "%s is no longer affected by %s\n", e.Actor, e.Name)
	case combat.EventTurnSkipped:
		fmt.Fprintf(r.out, "%s cannot act\n", e.Actor)
	case combat.EventInsufficientResource:
		fmt.Fprintf(r.out, "%s lacks the %s for %s (need %d, have %d)\n", e.Actor, e.Resource, e.Name, e.Cost, e.Remaining)
	case combat.EventAttack:
		what := "attacks"
		if e.Action == combat.ActionSpecial {
			what = "uses " + e.Name + " on"
		}
		fmt.Fprintf(r.out, "%s %s %s for %d (%s at %d hp)\n", e.Actor, what, e.Target, e.Amount, e.Target, e.Remaining)
	case combat.EventSpecialMiss:
		fmt.Fprintf(r.out, "%s's %s misses %s\n", e.Actor, e.Name, e.Target)
	case combat.EventConditionApplied:
		fmt.Fprintf(r.out, "%s is afflicted with %s for %d turns\n", e.Target, e.Name, e.Remaining)
	case combat.EventRegen:
		if e.Amount > 0 {
			fmt.Fprintf(r.out, "%s regenerates %d\n", e.Actor, e.Amount)
		}
	case combat.EventLevelUp:
		fmt.Fprintf(r.out, "%s reaches level %d\n", e.Actor, e.Level)
	case combat.EventReward:
		fmt.Fprintf(r.out, "%s receives %s\n", e.Actor, e.Name)
	case combat.EventBattleEnded:
		fmt.Fprintf(r.out, "=== %s after %d turns ===\n", strings.ReplaceAll(e.Outcome.String(), "_", " "), e.Turn)
	}
}
