// Package main provides the interactive expedition shell. One world, one
// player, a tick budget per session, and a preview before every commitment:
// the shell shows what an action will cost before it is rolled for real.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/frontier/internal/config"
	"github.com/cory-johannsen/frontier/internal/game/catalog"
	"github.com/cory-johannsen/frontier/internal/game/command"
	"github.com/cory-johannsen/frontier/internal/game/discovery"
	"github.com/cory-johannsen/frontier/internal/game/luck"
	"github.com/cory-johannsen/frontier/internal/game/travel"
	"github.com/cory-johannsen/frontier/internal/game/world"
	"github.com/cory-johannsen/frontier/internal/observability"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	seed := flag.String("seed", "", "world seed; overrides the config value")
	budget := flag.Float64("budget", 0, "ticks per session; overrides the config value")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *seed != "" {
		cfg.World.Seed = *seed
	}
	if *budget > 0 {
		cfg.Session.Ticks = *budget
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	cat := catalog.Default()
	if cfg.World.Catalog != "" {
		cat, err = catalog.LoadFromFile(cfg.World.Catalog)
		if err != nil {
			logger.Fatal("loading catalog", zap.Error(err))
		}
	}

	w := world.New(cfg.World.Seed, cat, logger)
	w.StartSession(cfg.Session.Ticks)

	sh := &shell{
		world:    w,
		engine:   discovery.NewEngine(logger),
		registry: command.DefaultRegistry(),
		budget:   cfg.Session.Ticks,
		in:       bufio.NewScanner(os.Stdin),
		out:      os.Stdout,
	}

	fmt.Fprintf(sh.out, "expedition seed %q, %.0f ticks per session\n", w.Seed, sh.budget)
	fmt.Fprintln(sh.out, `type "help" for commands`)
	sh.printStatus()
	sh.run()
}

type shell struct {
	world    *world.World
	engine   *discovery.Engine
	registry *command.Registry
	budget   float64
	in       *bufio.Scanner
	out      io.Writer
}

func (s *shell) run() {
	for {
		fmt.Fprintf(s.out, "[%.1ft] > ", s.world.Session.Remaining())
		if !s.in.Scan() {
			fmt.Fprintln(s.out)
			return
		}
		parsed := command.Parse(s.in.Text())
		if parsed.Command == "" {
			continue
		}
		cmd, ok := s.registry.Resolve(parsed.Command)
		if !ok {
			fmt.Fprintf(s.out, "unknown command %q, try \"help\"\n", parsed.Command)
			continue
		}
		if command.TakesTarget(cmd.Handler) && len(parsed.Args) == 0 {
			fmt.Fprintf(s.out, "usage: %s\n", cmd.Help)
			continue
		}
		if !s.dispatch(cmd, parsed.Args) {
			return
		}
	}
}

// dispatch runs one resolved command. It returns false when the shell
// should exit.
func (s *shell) dispatch(cmd *command.Command, args []string) bool {
	switch cmd.Handler {
	case command.HandlerSurvey:
		s.runSurvey()
	case command.HandlerExplore:
		s.runExplore()
	case command.HandlerGo:
		s.runGo(world.AreaID(args[0]))
	case command.HandlerPath:
		s.runPath(world.AreaID(args[0]))
	case command.HandlerStatus:
		s.printStatus()
	case command.HandlerLuck:
		s.printLuck()
	case command.HandlerRest:
		s.runRest()
	case command.HandlerHelp:
		s.printHelp()
	case command.HandlerQuit:
		s.printLuck()
		return false
	}
	return true
}

func (s *shell) runSurvey() {
	pv, find, err := s.engine.PreviewSurvey(s.world)
	if err != nil {
		fmt.Fprintln(s.out, refusal(err))
		return
	}
	if find {
		fmt.Fprintf(s.out, "survey: %d rolls at %.0f%%, a find after %.1f ticks\n",
			pv.Attempts, pv.Chance*100, pv.TicksNeeded)
	} else {
		fmt.Fprintf(s.out, "survey: %d rolls at %.0f%%, the session ends empty-handed after %.1f ticks\n",
			pv.Attempts, pv.Chance*100, pv.TicksNeeded)
	}
	if !s.confirm("commit?") {
		fmt.Fprintln(s.out, "nothing ventured")
		return
	}

	res, err := s.engine.SurveyOnce(s.world)
	if err != nil {
		fmt.Fprintln(s.out, refusal(err))
		return
	}
	if !res.Success {
		fmt.Fprintf(s.out, "the trail went cold, %.1f ticks spent\n", res.TicksConsumed)
		return
	}
	area, _ := s.world.GetArea(res.AreaID)
	fmt.Fprintf(s.out, "discovered %s (%s, band %d) in %.1f ticks, expected %.1f\n",
		area.Name, area.ID, area.Distance, res.ActualTicks, res.ExpectedTicks)
}

func (s *shell) runExplore() {
	pv, find, err := s.engine.PreviewExplore(s.world)
	if err != nil {
		fmt.Fprintln(s.out, refusal(err))
		return
	}
	if find {
		fmt.Fprintf(s.out, "explore: %d rolls at %.0f%%, a find after %.1f ticks\n",
			pv.Attempts, pv.Chance*100, pv.TicksNeeded)
	} else {
		fmt.Fprintf(s.out, "explore: %d rolls at %.0f%%, the session ends empty-handed after %.1f ticks\n",
			pv.Attempts, pv.Chance*100, pv.TicksNeeded)
	}
	if !s.confirm("commit?") {
		fmt.Fprintln(s.out, "nothing ventured")
		return
	}

	res, err := s.engine.ExploreOnce(s.world)
	if err != nil {
		fmt.Fprintln(s.out, refusal(err))
		return
	}
	if !res.Success {
		fmt.Fprintf(s.out, "nothing turned up, %.1f ticks spent\n", res.TicksConsumed)
		return
	}
	switch {
	case res.LocationID != "":
		fmt.Fprintf(s.out, "found a location: %s (%.1f ticks)\n", s.locationName(res.LocationID), res.TicksConsumed)
	case res.ToUnknownArea:
		conn, _ := s.world.GetConnection(res.ConnectionID)
		far, _ := s.world.GetArea(conn.Other(s.world.Player.CurrentArea))
		fmt.Fprintf(s.out, "found a passage to somewhere new: %s (%s, band %d), %.1f ticks\n",
			far.Name, far.ID, far.Distance, res.TicksConsumed)
	default:
		conn, _ := s.world.GetConnection(res.ConnectionID)
		far, _ := s.world.GetArea(conn.Other(s.world.Player.CurrentArea))
		fmt.Fprintf(s.out, "found a passage to %s (%s), %.1f ticks\n", far.Name, far.ID, res.TicksConsumed)
	}
	if res.BonusAwarded {
		fmt.Fprintln(s.out, "the area is fully explored; completion bonus banked")
	}
}

func (s *shell) runGo(to world.AreaID) {
	path, ok := travel.FindPath(s.world, s.world.Player.CurrentArea, to)
	if !ok {
		fmt.Fprintf(s.out, "no known route to %s\n", to)
		return
	}
	if path.Hops() == 0 {
		fmt.Fprintln(s.out, "you are already there")
		return
	}
	s.printPath(path)
	if !s.confirm("walk it?") {
		fmt.Fprintln(s.out, "staying put")
		return
	}

	res, err := travel.Move(s.world, to)
	if err != nil {
		fmt.Fprintln(s.out, refusal(err))
		return
	}
	area, _ := s.world.GetArea(s.world.Player.CurrentArea)
	fmt.Fprintf(s.out, "arrived at %s (%s, band %d) after %.1f ticks\n",
		area.Name, area.ID, area.Distance, res.TicksConsumed)
}

func (s *shell) runPath(to world.AreaID) {
	path, ok := travel.FindPath(s.world, s.world.Player.CurrentArea, to)
	if !ok {
		fmt.Fprintf(s.out, "no known route to %s\n", to)
		return
	}
	s.printPath(path)
}

func (s *shell) printPath(path travel.Path) {
	names := make([]string, 0, len(path.Areas))
	for _, id := range path.Areas {
		names = append(names, string(id))
	}
	fmt.Fprintf(s.out, "route: %s (%d hops, %.1f ticks)\n",
		strings.Join(names, " -> "), path.Hops(), path.TotalTicks)
}

func (s *shell) runRest() {
	if !s.confirm("end the session and start fresh?") {
		return
	}
	s.world.StartSession(s.budget)
	fmt.Fprintf(s.out, "a new session begins with %.0f ticks\n", s.budget)
}

func (s *shell) printStatus() {
	w := s.world
	area := w.EnsureGenerated(w.Player.CurrentArea)

	fmt.Fprintf(s.out, "\n%s (%s, band %d)\n", area.Name, area.ID, area.Distance)
	fmt.Fprintf(s.out, "session: %.1f of %.0f ticks used, %.1f left\n",
		w.Session.Elapsed(), w.Session.Budget(), w.Session.Remaining())
	fmt.Fprintf(s.out, "surveying level %d; known: %d areas, %d connections, %d locations\n",
		w.Player.SkillLevel(world.SkillSurveying),
		w.Player.KnownAreaCount(), w.Player.KnownConnectionCount(), w.Player.KnownLocationCount())

	if w.Player.IsFullyExplored(area.ID) {
		fmt.Fprintln(s.out, "this area is fully explored")
	}

	if locs := s.knownLocationsHere(area); len(locs) > 0 {
		fmt.Fprintln(s.out, "locations here:")
		for _, l := range locs {
			if l.Kind == world.KindGatheringNode {
				fmt.Fprintf(s.out, "  %s (%s, tier %d)\n", l.Name, l.Skill, l.Tier)
			} else {
				fmt.Fprintf(s.out, "  %s (%s)\n", l.Name, l.Kind)
			}
		}
	}

	exits := s.knownExits(area)
	if len(exits) == 0 {
		fmt.Fprintln(s.out, "no known exits; survey and explore to find some")
	} else {
		fmt.Fprintln(s.out, "known exits:")
		for _, e := range exits {
			fmt.Fprint(s.out, e)
		}
	}

	s.printOdds()
}

// knownLocationsHere lists the current area's discovered locations in
// generation order.
func (s *shell) knownLocationsHere(area *world.Area) []*world.Location {
	locs := make([]*world.Location, 0, len(area.Locations))
	for _, l := range area.Locations {
		if s.world.Player.KnowsLocation(l.ID) {
			locs = append(locs, l)
		}
	}
	return locs
}

func (s *shell) knownExits(area *world.Area) []string {
	exits := make([]string, 0)
	for _, c := range s.world.ConnectionsOf(area.ID) {
		if !s.world.Player.KnowsConnection(c.ID) {
			continue
		}
		far, ok := s.world.GetArea(c.Other(area.ID))
		if !ok {
			continue
		}
		suffix := ""
		if s.world.Player.IsFullyExplored(far.ID) {
			suffix = " [explored]"
		}
		exits = append(exits, fmt.Sprintf("  %s (%s, band %d) %.0ft%s\n",
			far.Name, far.ID, far.Distance, c.TravelTicks(), suffix))
	}
	return exits
}

func (s *shell) printOdds() {
	if pv, _, err := s.engine.PreviewSurvey(s.world); err == nil {
		fmt.Fprintf(s.out, "survey odds: %.0f%% per %.1f ticks\n", pv.Chance*100, pv.Interval)
	} else {
		fmt.Fprintf(s.out, "survey: %s\n", refusal(err))
	}
	if pv, _, err := s.engine.PreviewExplore(s.world); err == nil {
		fmt.Fprintf(s.out, "explore odds: %.0f%% per %.1f ticks\n", pv.Chance*100, pv.Interval)
	} else {
		fmt.Fprintf(s.out, "explore: %s\n", refusal(err))
	}
}

func (s *shell) printLuck() {
	rolls := s.world.Player.Rolls()
	fmt.Fprintln(s.out, luck.BuildSummary(rolls))
	report := luck.Summarize(rolls)
	for _, st := range report.Streams {
		fmt.Fprintf(s.out, "  %s: %d of %d rolls hit, %.1f expected (z %+.2f)\n",
			st.Label, st.Successes, st.Trials, st.Expected, st.Z)
	}
}

func (s *shell) printHelp() {
	byCat := s.registry.CommandsByCategory()
	order := []string{
		command.CategoryAction,
		command.CategoryNavigation,
		command.CategoryInfo,
		command.CategorySystem,
	}
	for _, cat := range order {
		cmds := byCat[cat]
		sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
		fmt.Fprintf(s.out, "%s:\n", cat)
		for _, c := range cmds {
			name := c.Name
			if len(c.Aliases) > 0 {
				name = fmt.Sprintf("%s (%s)", c.Name, strings.Join(c.Aliases, ", "))
			}
			fmt.Fprintf(s.out, "  %-20s %s\n", name, c.Help)
		}
	}
}

func (s *shell) locationName(id world.LocationID) string {
	area, _ := s.world.GetArea(s.world.Player.CurrentArea)
	for _, l := range area.Locations {
		if l.ID == id {
			if l.Kind == world.KindGatheringNode {
				return fmt.Sprintf("%s (%s, tier %d)", l.Name, l.Skill, l.Tier)
			}
			return fmt.Sprintf("%s (%s)", l.Name, l.Kind)
		}
	}
	return string(id)
}

func (s *shell) confirm(prompt string) bool {
	fmt.Fprintf(s.out, "%s [y/N] ", prompt)
	if !s.in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(s.in.Text()))
	return answer == "y" || answer == "yes"
}

// refusal renders an action error as a shell message.
func refusal(err error) string {
	switch {
	case errors.Is(err, discovery.ErrSessionExhausted), errors.Is(err, travel.ErrSessionExhausted):
		return `not enough time left in the session; "rest" to start a new one`
	case errors.Is(err, discovery.ErrNothingToSurvey):
		return "nothing left to survey from known ground"
	case errors.Is(err, discovery.ErrAreaFullyExplored):
		return "this area is fully explored; travel somewhere fresh"
	case errors.Is(err, discovery.ErrSkillRequired):
		return "surveying requires at least level 1"
	case errors.Is(err, travel.ErrNoKnownPath):
		return "no known route leads there"
	default:
		return err.Error()
	}
}
