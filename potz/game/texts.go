package game

import (
	"fmt"
	"strings"
)

const (
	UsageAddHero     = "Usage: /add_hero <hero> [stress] [harm]"
	UsageRemoveHero  = "Usage: /remove_hero <hero>"
	UsageAddTimer    = "Usage: /add_timer <timer> <start_value>"
	UsageRemoveTimer = "Usage: /remove_timer <timer>"
	UsageClaim       = "Usage: /claim <hero>"
	UsageTurnSet     = "Usage: /turn set <hero> [hero...]"
	UsageItemsAdd    = "Usage: /items [hero] add <item>"
	UsageItemsDrop   = "Usage: /items [hero] discard <item>"

	TextCountersNotNumbers = "Stress and harm must be numbers"
	TextCountersNegative   = "Stress and harm must not be negative"
	TextInvalidName        = "Names must be at most 32 characters and must not contain '_' or spaces"
	TextTimerNotNumber     = "Timer start value must be a number"
	TextTimerNotPositive   = "Timer start value must be positive"
	TextNoTurnOrder        = "Turn order is not set"
	TextTurnDuplicate      = "Each hero can appear only once in the turn order"
	TextNoClaim            = "You have not claimed a hero"
	TextItemsNoHero        = "Claim a hero with /claim or name one: /items <hero>"
	TextUnknownAction      = "Unknown action"
	TextWelcome            = "Welcome to the bot, potz!"

	TextEmpty       = "No heroes or timers yet. Use /add_hero or /add_timer."
	TextPickStress  = "Pick a hero to change stress."
	TextPickHarm    = "Pick a hero to change harm."
	TextPickTimer   = "Pick a timer to advance or remove."
	TextPickDice    = "How many dice?"
	TextNoHeroes    = "No heroes yet. Use /add_hero."
	TextNoTimers    = "No timers yet. Use /add_timer."
	TextDefaultPriv = "This bot stores the heroes, timers, turn order, claims and items of this chat " +
		"so the game survives between messages. For claims it keeps the Telegram id of the claiming user. " +
		"Nothing is shared with third parties."
)

// Help lists the commands. Admin-only commands are left out.
const Help = `What can this bot do?

/add_hero <hero> [stress] [harm] - add a hero, stress and harm default to 0
/remove_hero <hero> - remove a hero
/add_timer <timer> <start_value> - add a countdown timer
/remove_timer <timer> - remove a timer
/roll - open the dice keyboard
/roll20 - roll a d20
/turn - show whose turn it is
/turn set <hero> [hero...] - set the turn order
/turn next - pass the turn
/claim <hero> - claim a hero as yours
/unclaim - release your hero
/items [hero] [hand|add|discard] [item] - manage a hero's items
/help - show this message
/privacy - show the privacy notice

Using the inline keyboard you can:
- roll dice
- add or remove stress or harm from a hero
- advance or remove timers`

func heroExists(name string) string   { return fmt.Sprintf("Hero %s already exists", name) }
func heroNotFound(name string) string { return fmt.Sprintf("Hero %s not found", name) }
func heroAdded(name string) string    { return fmt.Sprintf("Hero %s added", name) }
func heroRemoved(name string) string  { return fmt.Sprintf("Hero %s removed", name) }

func timerExists(name string) string   { return fmt.Sprintf("Timer %s already exists", name) }
func timerNotFound(name string) string { return fmt.Sprintf("Timer %s not found", name) }
func timerAdded(name string, v int) string {
	return fmt.Sprintf("Timer %s set to %d", name, v)
}
func timerRemoved(name string) string        { return fmt.Sprintf("Timer %s removed", name) }
func timerTicked(name string, v int) string  { return fmt.Sprintf("Timer %s: %d", name, v) }
func timerExpired(name string) string        { return fmt.Sprintf("Timer %s expired!", name) }
func timerAlreadyExpired(name string) string { return fmt.Sprintf("Timer %s has already expired", name) }

func nothingToRemove(hero, counter string) string {
	return fmt.Sprintf("%s has no %s to remove", hero, counter)
}
func counterChanged(hero, counter string, v int) string {
	return fmt.Sprintf("%s now has %d %s", hero, v, counter)
}

func turnIs(hero string) string { return fmt.Sprintf("It is %s's turn.", hero) }
func turnPassed(prev, next string) string {
	return fmt.Sprintf("%s's turn ended. It is now %s's turn.", prev, next)
}
func turnOrderSet(names []string) string {
	return "Turn order: " + strings.Join(names, ", ")
}

func alreadyClaimed(hero string) string { return fmt.Sprintf("You've already claimed %s", hero) }
func claimCleared(hero string) string   { return fmt.Sprintf("%s claim cleared", hero) }
func unclaimed(hero string) string      { return fmt.Sprintf("%s unclaimed", hero) }
func claimed(hero string) string        { return fmt.Sprintf("%s claimed", hero) }

func itemNotInCatalog(item string) string { return fmt.Sprintf("Could not find %s in the item list", item) }
func itemAdded(hero, item string) string  { return fmt.Sprintf("%s added %s", hero, item) }
func itemHeld(hero, item string) string   { return fmt.Sprintf("%s already has %s", hero, item) }
func itemRemoved(hero, item string) string {
	return fmt.Sprintf("%s removed %s", hero, item)
}
func itemMissing(hero, item string) string { return fmt.Sprintf("%s does not have %s", hero, item) }
func noItems(hero string) string           { return fmt.Sprintf("%s has no items", hero) }
func itemList(hero string, items []string) string {
	return fmt.Sprintf("%s carries: %s", hero, strings.Join(items, ", "))
}

func notOneOf(sub string, options ...string) string {
	return fmt.Sprintf("%s is not one of %s", sub, strings.Join(options, ", "))
}

func rolled20(v int) string { return fmt.Sprintf("Rolling... %d", v) }
