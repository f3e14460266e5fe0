package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"restockplan/internal/domain"
	"restockplan/internal/scenario"
	"restockplan/internal/service"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "restockplan",
		Usage: "Run replenishment cash-flow simulations from scenario files",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Simulate a single scenario file and print its KPIs",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to a scenario YAML file",
						Required: true,
					},
				},
				Action: runScenario,
			},
			{
				Name:  "batch",
				Usage: "Simulate every scenario in a directory and print a comparison table",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "dir",
						Aliases:  []string{"d"},
						Usage:    "Directory of scenario YAML files",
						Required: true,
					},
				},
				Action: runBatch,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runScenario(c *cli.Context) error {
	scn, err := scenario.Load(c.String("file"))
	if err != nil {
		return err
	}

	svc := service.NewSimulationService(nil)
	result, err := svc.Run(c.Context, scn.Params())
	if err != nil {
		return err
	}
	if result == nil {
		fmt.Printf("%s: no batches, nothing to simulate\n", scn.Name)
		return nil
	}

	printKPIs(scn.Name, result)
	return nil
}

func runBatch(c *cli.Context) error {
	scenarios, err := scenario.LoadDir(c.String("dir"))
	if err != nil {
		return err
	}

	paramSets := make([]*domain.SimulationParams, len(scenarios))
	for i, scn := range scenarios {
		paramSets[i] = scn.Params()
	}

	svc := service.NewSimulationService(nil)
	results, err := svc.RunAll(c.Context, paramSets)
	if err != nil {
		return err
	}

	fmt.Printf("%-24s %12s %12s %12s %8s %10s %10s\n",
		"SCENARIO", "MIN CASH", "FINAL CASH", "NET PROFIT", "ROI", "BREAKEVEN", "STOCKOUT")
	for i, result := range results {
		if result == nil {
			fmt.Printf("%-24s %s\n", scenarios[i].Name, "(no batches)")
			continue
		}
		fmt.Printf("%-24s %12.2f %12.2f %12.2f %8.2f %10s %9dd\n",
			scenarios[i].Name,
			result.MinCash,
			result.FinalCash,
			result.TotalNetProfit,
			result.ROI,
			formatDay(result.BreakevenDay),
			result.TotalStockoutDays,
		)
	}
	return nil
}

func printKPIs(name string, r *domain.SimulationResult) {
	fmt.Printf("Scenario: %s\n", name)
	fmt.Printf("  Min cash (max exposure):  %.2f\n", r.MinCash)
	fmt.Printf("  Final cash:               %.2f\n", r.FinalCash)
	fmt.Printf("  Total revenue:            %.2f\n", r.TotalRevenue)
	fmt.Printf("  Total net profit:         %.2f\n", r.TotalNetProfit)
	fmt.Printf("  ROI:                      %.2f\n", r.ROI)
	fmt.Printf("  Turnover:                 %.2f\n", r.Turnover)
	fmt.Printf("  Breakeven day:            %s\n", formatDay(r.BreakevenDay))
	fmt.Printf("  Profitability day:        %s\n", formatDay(r.ProfitabilityDay))
	fmt.Printf("  Stockout days:            %d\n", r.TotalStockoutDays)
	if len(r.Stockouts) > 0 {
		fmt.Println("  Stockout intervals:")
		for _, iv := range r.Stockouts {
			fmt.Printf("    day %d-%d (%d days, after batch %d)\n",
				iv.StartDay, iv.EndDay, iv.GapDays, iv.BatchIndex)
		}
	}
}

func formatDay(day int) string {
	if day < 0 {
		return "never"
	}
	return fmt.Sprintf("day %d", day)
}
