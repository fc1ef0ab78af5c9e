package main

import (
	"fmt"
	"sort"

	"github.com/cityforge/urbanplan/pkg/geo"
	"github.com/cityforge/urbanplan/pkg/plan"
)

func printPlanSummary(p *plan.Plan) {
	fmt.Printf("%s (%s)\n", p.Name, p.ID)
	if p.Description != "" {
		fmt.Printf("  %s\n", p.Description)
	}
	fmt.Println()
	fmt.Printf("Buildings: %d  Roads: %d  Zones: %d  Sensors: %d\n",
		len(p.Buildings), len(p.Roads), len(p.Zones), len(p.Sensors))

	if minC, maxC, ok := p.Bounds(); ok {
		fmt.Printf("Bounds: %s to %s\n", minC, maxC)
	}

	if len(p.Buildings) > 0 {
		fmt.Println()
		fmt.Println("Buildings")
		fmt.Println("---------")
		for _, id := range sortedKeys(p.Buildings) {
			b := p.Buildings[id]
			fmt.Printf("  %-24s %s, %d floors, %.1fm\n", b.Name, b.ZoneType, b.Floors, b.Height)
			fmt.Printf("    footprint %.8f deg2, total %.8f deg2\n", b.FloorArea(), b.TotalArea())
		}
	}

	if len(p.Roads) > 0 {
		fmt.Println()
		fmt.Println("Roads")
		fmt.Println("-----")
		for _, id := range sortedKeys(p.Roads) {
			r := p.Roads[id]
			fmt.Printf("  %-24s %s, %.1fm wide, length %.6f deg\n", r.Name, r.Direction, r.Width, r.Length())
		}
	}

	if len(p.Zones) > 0 {
		fmt.Println()
		fmt.Println("Zones")
		fmt.Println("-----")
		for _, id := range sortedKeys(p.Zones) {
			z := p.Zones[id]
			center := geo.Centroid(z.Polygon)
			fmt.Printf("  %-24s %s, center %s, %d buildings\n", z.Name, z.ZoneType, center, len(z.Buildings))
		}
	}

	if len(p.Sensors) > 0 {
		fmt.Println()
		fmt.Println("Sensors")
		fmt.Println("-------")
		for _, id := range sortedKeys(p.Sensors) {
			s := p.Sensors[id]
			if s.LastReadingTime == nil {
				fmt.Printf("  %-12s %-14s %s, no readings\n", s.ID, s.Type, s.Status)
				continue
			}
			fmt.Printf("  %-12s %-14s %s, last %v at %s\n",
				s.ID, s.Type, s.Status, s.LastReading, s.LastReadingTime.Format("15:04:05"))
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
