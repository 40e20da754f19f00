// Package command provides the command registry, parser, and built-in
// command definitions for the interactive expedition shell.
package command

// Categories for organizing commands.
const (
	CategoryAction     = "action"
	CategoryNavigation = "navigation"
	CategoryInfo       = "info"
	CategorySystem     = "system"
)

// Handler identifiers mapping commands to shell handlers.
const (
	HandlerSurvey  = "survey"
	HandlerExplore = "explore"
	HandlerGo      = "go"
	HandlerPath    = "path"
	HandlerStatus  = "status"
	HandlerLuck    = "luck"
	HandlerRest    = "rest"
	HandlerHelp    = "help"
	HandlerQuit    = "quit"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command (action, navigation, info, system).
	Category string
	// Handler names the shell handler that executes the command.
	Handler string
}

// BuiltinCommands returns all built-in commands for the expedition shell.
func BuiltinCommands() []Command {
	return []Command{
		// Action commands
		{Name: "survey", Aliases: []string{"sv"}, Help: "Scan for undiscovered areas reachable from known ground", Category: CategoryAction, Handler: HandlerSurvey},
		{Name: "explore", Aliases: []string{"x"}, Help: "Search the current area for locations and connections", Category: CategoryAction, Handler: HandlerExplore},

		// Navigation commands
		{Name: "go", Aliases: []string{"g", "travel"}, Help: "Travel to a known area (go <area-id>)", Category: CategoryNavigation, Handler: HandlerGo},
		{Name: "path", Aliases: []string{"route"}, Help: "Show the cheapest known route (path <area-id>)", Category: CategoryNavigation, Handler: HandlerPath},

		// Info commands
		{Name: "status", Aliases: []string{"st", "look", "l"}, Help: "Show the current area, session clock, and known exits", Category: CategoryInfo, Handler: HandlerStatus},
		{Name: "luck", Aliases: []string{"lk"}, Help: "Summarize how lucky this expedition has rolled", Category: CategoryInfo, Handler: HandlerLuck},

		// System commands
		{Name: "rest", Aliases: []string{"camp"}, Help: "End the session and start a fresh tick budget", Category: CategorySystem, Handler: HandlerRest},
		{Name: "help", Aliases: []string{"?"}, Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"exit", "q"}, Help: "Leave the shell", Category: CategorySystem, Handler: HandlerQuit},
	}
}

// TakesTarget reports whether the handler requires an area argument.
func TakesTarget(handler string) bool {
	switch handler {
	case HandlerGo, HandlerPath:
		return true
	default:
		return false
	}
}
