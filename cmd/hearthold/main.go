// Command hearthold runs the settlement simulation.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"sync"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/talven/hearthold/internal/api"
	"github.com/talven/hearthold/internal/config"
	"github.com/talven/hearthold/internal/engine"
	"github.com/talven/hearthold/internal/persistence"
	"github.com/talven/hearthold/internal/skill"
	"github.com/talven/hearthold/internal/village"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	rootCmd := &cobra.Command{
		Use:   "hearthold",
		Short: "A village construction and dynasty simulation",
		Long: `Hearthold simulates a settlement: workers with skills raise
buildings for work points, seasons turn, raiders come in winter, and a
ruling house holds the seat across generations.`,
	}

	rootCmd.AddCommand(seedCmd(), dayCmd(), runCmd(), reportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func openDB(cfg *config.Config) *persistence.DB {
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err, "path", cfg.DBPath)
		os.Exit(1)
	}
	return db
}

// loadOrFound restores the saved settlement, or founds a new one when
// the database is empty.
func loadOrFound(cfg *config.Config, db *persistence.DB) *engine.Simulation {
	if db.HasState() {
		sim, err := db.LoadState()
		if err != nil {
			slog.Error("failed to load state", "error", err)
			os.Exit(1)
		}
		return sim
	}

	slog.Info("no saved settlement, founding a new one", "seed", cfg.Seed, "name", cfg.Name)
	sim := engine.New(engine.Config{
		Seed:       cfg.Seed,
		Name:       cfg.Name,
		Population: cfg.Population,
		TechLevel:  cfg.TechLevel,
		MapWidth:   cfg.MapWidth,
		MapHeight:  cfg.MapHeight,
	})
	if err := db.SaveState(sim); err != nil {
		slog.Error("initial save failed", "error", err)
	}
	return sim
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Found a fresh settlement, replacing any saved one",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			db := openDB(cfg)
			defer db.Close()

			sim := engine.New(engine.Config{
				Seed:       cfg.Seed,
				Name:       cfg.Name,
				Population: cfg.Population,
				TechLevel:  cfg.TechLevel,
				MapWidth:   cfg.MapWidth,
				MapHeight:  cfg.MapHeight,
			})

			// Open a first construction site so the fledgling
			// settlement has something to raise.
			if positions := sim.BuildablePositions(3); len(positions) == 3 {
				sim.StartConstruction(village.BuildingFarm, 1, positions[2])
			}

			if err := db.SaveState(sim); err != nil {
				slog.Error("save failed", "error", err)
				os.Exit(1)
			}

			color.Green("Founded %s: %d settlers under %s.",
				sim.Village.Name, sim.Pool.Alive(), sim.House.RulerTitle())
		},
	}
}

func dayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "day [n]",
		Short: "Advance the settlement by n days (default 1)",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			n := 1
			if len(args) == 1 {
				v, err := strconv.Atoi(args[0])
				if err != nil || v < 1 {
					color.Red("n must be a positive integer")
					os.Exit(1)
				}
				n = v
			}

			cfg := loadConfig()
			db := openDB(cfg)
			defer db.Close()
			sim := loadOrFound(cfg, db)

			var last engine.DayResult
			for i := 0; i < n; i++ {
				last = sim.ProcessDay()
			}
			if err := db.SaveState(sim); err != nil {
				slog.Error("save failed", "error", err)
				os.Exit(1)
			}

			printDaySummary(sim, last)
		},
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the settlement continuously with the HTTP API",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			db := openDB(cfg)
			defer db.Close()
			sim := loadOrFound(cfg, db)

			var mu sync.Mutex
			server := &api.Server{
				Sim:    sim,
				Mu:     &mu,
				Addr:   cfg.ListenAddr,
				PerSec: cfg.APIRateLimit,
			}
			server.Start()

			clock := engine.NewClock()
			clock.Interval = cfg.DayInterval
			clock.Lock = &mu
			clock.OnDay = func(result engine.DayResult) {
				if result.Day%cfg.SaveEvery == 0 {
					if err := db.SaveState(sim); err != nil {
						slog.Error("periodic save failed", "error", err)
					}
				}
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				sig := <-sigCh
				slog.Info("received signal, shutting down", "signal", sig)
				clock.Stop()
			}()

			fmt.Printf("%s is awake: %d souls, day %d (%s).\n",
				sim.Village.Name, sim.Pool.Alive(), sim.Day, sim.Season().Name())
			fmt.Printf("API: http://localhost%s/api/v1/status\n", cfg.ListenAddr)
			fmt.Println("Running... (Ctrl+C to stop)")

			clock.Run(sim)

			mu.Lock()
			if err := db.SaveState(sim); err != nil {
				slog.Error("final save failed", "error", err)
			}
			mu.Unlock()
			fmt.Println("Stopped. Settlement saved.")
		},
	}
}

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the state of the saved settlement",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			db := openDB(cfg)
			defer db.Close()

			if !db.HasState() {
				color.Yellow("No saved settlement. Run `hearthold seed` first.")
				return
			}
			sim, err := db.LoadState()
			if err != nil {
				slog.Error("failed to load state", "error", err)
				os.Exit(1)
			}
			printReport(sim)
		},
	}
}

func printDaySummary(sim *engine.Simulation, result engine.DayResult) {
	title := color.New(color.FgCyan, color.Bold)
	title.Printf("\n%s — day %s, year %d, %s\n",
		sim.Village.Name, humanize.Comma(int64(sim.Day)),
		sim.Day/engine.DaysPerYear, result.Season)

	fmt.Printf("  Souls: %d / %d housed\n", sim.Pool.Alive(), sim.Village.HousingCapacity())
	fmt.Printf("  Assigned workers: %d\n", result.AssignedWorkers)
	if result.Construction.WorkedSite != 0 {
		fmt.Printf("  Construction: site %d advanced %.2f points (%d builders, %d idle on site)\n",
			result.Construction.WorkedSite, result.Construction.DailyProgress,
			result.Construction.EffectiveBuilders, result.Construction.ExcessBuilders)
	}
	for _, c := range result.Construction.Completed {
		color.Green("  Completed: %s (level %d)", c.BuildingType.Name(), c.Level)
	}
	for _, name := range result.Deaths {
		color.Red("  Death: %s", name)
	}
	for _, lu := range result.LevelUps {
		fmt.Printf("  Skill up: %s reached %s %s\n", lu.Name, lu.Title, lu.Skill)
	}
}

func printReport(sim *engine.Simulation) {
	title := color.New(color.FgCyan, color.Bold)
	title.Printf("\n%s — day %s, year %d, %s, under %s\n\n",
		sim.Village.Name, humanize.Comma(int64(sim.Day)),
		sim.Day/engine.DaysPerYear, sim.Season().Name(), sim.House.RulerTitle())

	// Stores.
	fmt.Print("Stores: ")
	for res := village.Resource(0); res < village.NumResources; res++ {
		fmt.Printf("%s %s  ", res.Name(), humanize.CommafWithDigits(sim.Village.Stores[res], 1))
	}
	fmt.Printf("\nTechnology level: %d   Wall level: %d\n\n", sim.TechLevel, sim.Village.WallLevel)

	// Buildings.
	bt := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"ID", "Building", "Level", "Status", "Position"}),
	)
	for _, b := range sim.Village.Buildings {
		status := "under construction"
		if b.Built {
			status = "built"
		}
		_ = bt.Append([]string{
			strconv.FormatUint(uint64(b.ID), 10),
			b.Type.Name(),
			strconv.Itoa(b.Level),
			status,
			fmt.Sprintf("(%d,%d)", b.Position.X, b.Position.Y),
		})
	}
	_ = bt.Render()

	// Sites.
	if sites := sim.Construction.Sites(); len(sites) > 0 {
		fmt.Println()
		st := tablewriter.NewTable(os.Stdout,
			tablewriter.WithHeader([]string{"Site", "Progress", "Builders", "Daily"}),
		)
		for _, s := range sites {
			_ = st.Append([]string{
				s.BuildingType.Name(),
				fmt.Sprintf("%.1f / %.1f", s.CurrentPoints, s.TotalPoints),
				strconv.Itoa(len(s.AssignedBuilders)),
				fmt.Sprintf("%.2f", s.DailyProgress),
			})
		}
		_ = st.Render()
	}

	// Workers, busiest first.
	workers := sim.Pool.Alive()
	fmt.Printf("\nSouls: %d\n", workers)
	wt := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Name", "Age", "Job", "Health", "Best Skill"}),
	)
	sorted := make([]int, 0, len(sim.Pool.Workers))
	for i, w := range sim.Pool.Workers {
		if w.Alive() {
			sorted = append(sorted, i)
		}
	}
	sort.SliceStable(sorted, func(a, b int) bool {
		return sim.Pool.Workers[sorted[a]].Assignment != nil &&
			sim.Pool.Workers[sorted[b]].Assignment == nil
	})
	for _, i := range sorted {
		w := sim.Pool.Workers[i]
		job := "idle"
		if w.Assignment != nil {
			job = w.Assignment.Job.Name()
		}
		_ = wt.Append([]string{
			w.Name,
			strconv.Itoa(w.AgeYears()),
			job,
			fmt.Sprintf("%.0f", w.Health),
			bestSkill(w.Skills),
		})
	}
	_ = wt.Render()
}

// bestSkill names the worker's highest-XP craft, e.g. "Journeyman Masonry".
func bestSkill(skills map[skill.Name]int) string {
	var best skill.Name
	bestXP := -1
	for name, xp := range skills {
		if xp > bestXP || (xp == bestXP && name < best) {
			best, bestXP = name, xp
		}
	}
	if bestXP < 0 {
		return "none"
	}
	return fmt.Sprintf("%s %s", skill.LevelName(skill.LevelFor(bestXP)), best)
}
