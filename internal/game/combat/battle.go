package combat

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/condition"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
)

// Outcome is the terminal result of a battle.
type Outcome int

const (
	OutcomeNone Outcome = iota
	PlayerWon
	EnemyWon
)

// String returns the snake_case outcome name.
func (o Outcome) String() string {
	switch o {
	case PlayerWon:
		return "player_won"
	case EnemyWon:
		return "enemy_won"
	default:
		return "none"
	}
}

// ParseOutcome converts an outcome name back to an Outcome.
func ParseOutcome(s string) (Outcome, error) {
	switch s {
	case "player_won":
		return PlayerWon, nil
	case "enemy_won":
		return EnemyWon, nil
	case "none":
		return OutcomeNone, nil
	}
	return OutcomeNone, fmt.Errorf("unknown outcome %q", s)
}

// Side identifies one of the two combatants in a battle.
type Side int

const (
	SidePlayer Side = iota
	SideEnemy
)

// String returns "player" or "enemy".
func (s Side) String() string {
	if s == SideEnemy {
		return "enemy"
	}
	return "player"
}

// Other returns the opposing side.
func (s Side) Other() Side {
	if s == SidePlayer {
		return SideEnemy
	}
	return SidePlayer
}

// Battle states and transitions.
const (
	StateNotStarted = "not_started"
	StateInProgress = "in_progress"
	StatePlayerWon  = "player_won"
	StateEnemyWon   = "enemy_won"

	transitionStart     = "start"
	transitionPlayerWin = "player_wins"
	transitionEnemyWin  = "enemy_wins"
)

// Report summarizes a finished battle.
type Report struct {
	ID         string
	Outcome    Outcome
	Turns      int
	FirstActor Side
	// Reward is the post-victory reward; nil unless the player won.
	Reward *Reward
}

// Manager runs battles between two combatants. It holds only configuration;
// all per-battle state lives in the battle it creates for each call.
type Manager struct {
	src          dice.Source
	logger       *zap.Logger
	notifier     Notifier
	conditions   *condition.Registry
	items        *inventory.Registry
	rewards      RewardTable
	playerPolicy Policy
	enemyPolicy  Policy
	maxTurns     int
}

// Option configures a Manager.
type Option func(*Manager)

// WithNotifier sets the event receiver.
func WithNotifier(n Notifier) Option {
	return func(m *Manager) { m.notifier = n }
}

// WithConditions sets the condition registry used for turn-start ticks and
// for resolving the conditions special attacks inflict.
func WithConditions(r *condition.Registry) Option {
	return func(m *Manager) { m.conditions = r }
}

// WithItems sets the item pool reward grants draw from.
func WithItems(r *inventory.Registry) Option {
	return func(m *Manager) { m.items = r }
}

// WithRewards sets the post-victory reward table.
func WithRewards(t RewardTable) Option {
	return func(m *Manager) { m.rewards = t }
}

// WithPolicies sets the action policy for each side. A nil policy keeps the default.
func WithPolicies(player, enemy Policy) Option {
	return func(m *Manager) {
		if player != nil {
			m.playerPolicy = player
		}
		if enemy != nil {
			m.enemyPolicy = enemy
		}
	}
}

// WithMaxTurns bounds battle length; 0 means unlimited.
func WithMaxTurns(n int) Option {
	return func(m *Manager) { m.maxTurns = n }
}

// NewManager creates a Manager drawing all randomness from src.
//
// Precondition: src must be non-nil; logger may be nil.
// Postcondition: Unset options default to a no-op notifier, the built-in
// condition registry, item pool and reward table, and ChancePolicy for both sides.
func NewManager(src dice.Source, logger *zap.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	def := ChancePolicy{SpecialChance: DefaultSpecialChance}
	m := &Manager{
		src:          src,
		logger:       logger,
		notifier:     nopNotifier{},
		conditions:   condition.DefaultRegistry(),
		items:        inventory.DefaultRegistry(),
		rewards:      DefaultRewardTable(),
		playerPolicy: def,
		enemyPolicy:  def,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.notifier == nil {
		m.notifier = nopNotifier{}
	}
	return m
}

// StartBattle runs a battle to completion and returns its outcome.
func (m *Manager) StartBattle(player, enemy *Combatant) (Outcome, error) {
	r, err := m.Fight(player, enemy)
	if err != nil {
		return OutcomeNone, err
	}
	return r.Outcome, nil
}

// Fight runs a battle between player and enemy to a terminal state.
//
// Both combatants are reset, a fair draw picks who acts first, and turns
// alternate until one side's health reaches zero. When the player wins, it
// levels up, receives one reward roll, and both combatants are reset for the
// next encounter. When the enemy wins, both are left as the battle left them.
//
// Precondition: player and enemy must be distinct and non-nil.
// Postcondition: Returns ErrTurnLimit if the configured turn limit is reached
// before a winner; the report is still returned with Outcome OutcomeNone.
func (m *Manager) Fight(player, enemy *Combatant) (*Report, error) {
	if player == nil || enemy == nil {
		return nil, ErrNilCombatant
	}
	if player == enemy {
		return nil, ErrSameCombatant
	}
	if err := m.rewards.Validate(); err != nil {
		return nil, fmt.Errorf("invalid reward table: %w", err)
	}
	b := m.newBattle(player, enemy)
	if err := b.run(); err != nil {
		return b.report(), err
	}
	return b.report(), nil
}

type battle struct {
	m       *Manager
	id      string
	machine *fsm.FSM
	sides   [2]*Combatant
	first   Side
	active  Side
	turn    int
	reward  *Reward
	log     *zap.Logger
}

func (m *Manager) newBattle(player, enemy *Combatant) *battle {
	id := uuid.NewString()
	b := &battle{
		m:     m,
		id:    id,
		sides: [2]*Combatant{player, enemy},
		log:   m.logger.With(zap.String("battle_id", id)),
	}
	b.machine = fsm.NewFSM(
		StateNotStarted,
		fsm.Events{
			{Name: transitionStart, Src: []string{StateNotStarted}, Dst: StateInProgress},
			{Name: transitionPlayerWin, Src: []string{StateInProgress}, Dst: StatePlayerWon},
			{Name: transitionEnemyWin, Src: []string{StateInProgress}, Dst: StateEnemyWon},
		},
		fsm.Callbacks{
			"enter_" + StateInProgress: func(_ context.Context, _ *fsm.Event) {
				for _, c := range b.sides {
					c.ResetForEncounter()
				}
			},
			"enter_" + StatePlayerWon: func(_ context.Context, _ *fsm.Event) {
				b.settleVictory()
			},
		},
	)
	return b
}

func (b *battle) notify(e Event) {
	e.BattleID = b.id
	e.Turn = b.turn
	b.m.notifier.Notify(e)
}

func (b *battle) outcome() Outcome {
	switch b.machine.Current() {
	case StatePlayerWon:
		return PlayerWon
	case StateEnemyWon:
		return EnemyWon
	default:
		return OutcomeNone
	}
}

func (b *battle) report() *Report {
	return &Report{
		ID:         b.id,
		Outcome:    b.outcome(),
		Turns:      b.turn,
		FirstActor: b.first,
		Reward:     b.reward,
	}
}

func (b *battle) run() error {
	ctx := context.Background()
	if err := b.machine.Event(ctx, transitionStart); err != nil {
		return fmt.Errorf("starting battle: %w", err)
	}
	b.first = SidePlayer
	if dice.Pick(b.m.src, 2) == 1 {
		b.first = SideEnemy
	}
	b.active = b.first
	player, enemy := b.sides[SidePlayer], b.sides[SideEnemy]
	b.log.Info("battle started",
		zap.String("player", player.Name),
		zap.String("player_archetype", player.Archetype.String()),
		zap.String("enemy", enemy.Name),
		zap.String("enemy_archetype", enemy.Archetype.String()),
		zap.String("first", b.first.String()),
	)
	b.notify(Event{Kind: EventBattleStarted, Actor: b.sides[b.first].Name, Target: b.sides[b.first.Other()].Name})

	for b.machine.Is(StateInProgress) {
		if b.m.maxTurns > 0 && b.turn >= b.m.maxTurns {
			b.log.Warn("battle hit turn limit", zap.Int("turns", b.turn))
			return ErrTurnLimit
		}
		b.turn++
		if err := b.takeTurn(ctx); err != nil {
			return err
		}
		b.active = b.active.Other()
	}

	out := b.outcome()
	b.log.Info("battle ended", zap.String("outcome", out.String()), zap.Int("turns", b.turn))
	b.notify(Event{Kind: EventBattleEnded, Outcome: out, Actor: player.Name, Target: enemy.Name})
	return nil
}

func (b *battle) policy(s Side) Policy {
	if s == SideEnemy {
		return b.m.enemyPolicy
	}
	return b.m.playerPolicy
}

// takeTurn resolves one turn for the active side: status tick, action, and
// end-of-turn regen, checking for a winner after the tick and after the action.
func (b *battle) takeTurn(ctx context.Context) error {
	actor, opponent := b.sides[b.active], b.sides[b.active.Other()]
	b.notify(Event{Kind: EventTurnStarted, Actor: actor.Name})

	gate, ticks := b.m.conditions.ApplyStatusEffects(actor)
	for _, tk := range ticks {
		b.notify(Event{Kind: EventStatusTick, Actor: actor.Name, Name: tk.ID, Amount: tk.Damage, Remaining: tk.Remaining})
		if tk.Expired() {
			b.notify(Event{Kind: EventEffectExpired, Actor: actor.Name, Name: tk.ID})
		}
	}
	if done, err := b.checkWinner(ctx); done || err != nil {
		return err
	}

	if gate == condition.SkipTurn {
		b.notify(Event{Kind: EventTurnSkipped, Actor: actor.Name})
	} else {
		b.act(actor, opponent)
		if done, err := b.checkWinner(ctx); done || err != nil {
			return err
		}
	}

	if regen := actor.Def().TurnRegen; regen > 0 {
		healed := actor.Heal(regen)
		b.notify(Event{Kind: EventRegen, Actor: actor.Name, Amount: healed, Remaining: actor.Health})
	}
	b.notify(Event{Kind: EventTurnEnded, Actor: actor.Name})
	return nil
}

// act performs exactly one attack. A special attack whose precondition fails
// falls back to a basic attack; a special attack that loses its roll is a miss.
// A landed special attack also applies the actor's inflicted condition.
func (b *battle) act(actor, opponent *Combatant) {
	choice := b.policy(b.active).ChooseAction(actor, opponent, b.m.src)
	if choice != ActionSpecial {
		if choice != ActionBasic {
			b.log.Warn("policy returned unknown action; attacking",
				zap.String("actor", actor.Name), zap.Int("action", int(choice)))
		}
		b.emitAttack(actor.BasicAttack(opponent), actor, opponent, false)
		return
	}

	res, err := actor.SpecialAttack(opponent, b.m.src)
	var insufficient *InsufficientResourceError
	if errors.As(err, &insufficient) {
		b.log.Debug("special attack unavailable; falling back",
			zap.String("actor", actor.Name),
			zap.String("resource", insufficient.Resource.String()),
			zap.Int("required", insufficient.Required),
			zap.Int("available", insufficient.Available),
		)
		b.notify(Event{
			Kind:      EventInsufficientResource,
			Actor:     actor.Name,
			Action:    ActionSpecial,
			Name:      actor.Def().Special.Name,
			Resource:  insufficient.Resource,
			Cost:      insufficient.Required,
			Remaining: insufficient.Available,
		})
		b.emitAttack(actor.BasicAttack(opponent), actor, opponent, true)
		return
	}
	if !res.Hit {
		e := b.attackEvent(EventSpecialMiss, res, actor, opponent)
		b.notify(e)
		return
	}
	b.emitAttack(res, actor, opponent, false)
	b.inflict(actor, opponent)
}

// inflict applies the actor's special-attack condition to a surviving opponent.
func (b *battle) inflict(actor, opponent *Combatant) {
	inf := actor.Def().Special.Inflicts
	if inf.None() || opponent.IsDead() {
		return
	}
	def, ok := b.m.conditions.Get(inf.Condition)
	if !ok {
		b.log.Warn("special attack inflicts unknown condition",
			zap.String("actor", actor.Name), zap.String("condition", inf.Condition))
		return
	}
	if err := opponent.ApplyCondition(def, inf.Turns); err != nil {
		b.log.Warn("applying condition", zap.String("target", opponent.Name), zap.Error(err))
		return
	}
	b.notify(Event{
		Kind:      EventConditionApplied,
		Actor:     actor.Name,
		Target:    opponent.Name,
		Action:    ActionSpecial,
		Name:      def.ID,
		Remaining: opponent.Conditions().Remaining(def.ID),
	})
}

func (b *battle) attackEvent(kind EventKind, res AttackResult, actor, opponent *Combatant) Event {
	e := Event{
		Kind:       kind,
		Actor:      actor.Name,
		Target:     opponent.Name,
		Action:     res.Action,
		Name:       res.Name,
		Amount:     res.Damage,
		Remaining:  opponent.Health,
		Multiplier: res.Multiplier,
	}
	switch {
	case res.SelfDamage > 0:
		e.Resource, e.Cost = ResourceHealth, res.SelfDamage
	case res.ManaSpent > 0:
		e.Resource, e.Cost = ResourceMana, res.ManaSpent
	}
	return e
}

func (b *battle) emitAttack(res AttackResult, actor, opponent *Combatant, fallback bool) {
	e := b.attackEvent(EventAttack, res, actor, opponent)
	e.Fallback = fallback
	b.notify(e)
}

// checkWinner moves the machine to a terminal state if either side is dead.
func (b *battle) checkWinner(ctx context.Context) (bool, error) {
	var transition string
	switch {
	case b.sides[SideEnemy].IsDead():
		transition = transitionPlayerWin
	case b.sides[SidePlayer].IsDead():
		transition = transitionEnemyWin
	default:
		return false, nil
	}
	if err := b.machine.Event(ctx, transition); err != nil {
		return true, fmt.Errorf("ending battle: %w", err)
	}
	return true, nil
}

// settleVictory levels the player, rolls one reward, and resets both sides.
func (b *battle) settleVictory() {
	player := b.sides[SidePlayer]
	player.LevelUp()
	b.log.Info("player leveled up", zap.String("player", player.Name), zap.Int("level", player.Level))
	b.notify(Event{Kind: EventLevelUp, Actor: player.Name, Level: player.Level})

	r := rollReward(player, b.m.rewards, b.m.items, b.m.src)
	b.reward = &r
	e := Event{Kind: EventReward, Actor: player.Name, Name: r.Kind.String(), Amount: r.Amount}
	if r.Item != nil {
		e.Name = r.Item.ID
	}
	b.log.Info("reward rolled",
		zap.String("player", player.Name),
		zap.String("reward", r.Kind.String()),
		zap.Bool("applied", r.Applied),
	)
	b.notify(e)

	for _, c := range b.sides {
		c.ResetForEncounter()
	}
}
