// Package main - test_runner.go
// Executable to run the headless soak scenarios.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/wildsim/ozzoo/test"
)

func main() {
	days := flag.Int("days", 100, "Length of the season soak in simulated days")
	flag.Parse()

	fmt.Println("🦘 OZZOO - SOAK TEST SUITE")
	fmt.Println("================================================")

	ctx := context.Background()

	// Test 1: a full season, day after day
	seasonTest := test.NewLongRunTest(*days)
	seasonTest.RunTest(ctx)

	// Test 2: a park with nothing in it
	emptyTest := test.NewEmptyParkTest()
	emptyTest.RunTest(ctx)

	// Summary
	results := append(seasonTest.GetResults(), emptyTest.GetResults()...)
	passed := 0
	failed := 0

	for _, r := range results {
		if r.Passed {
			passed++
		} else {
			failed++
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("📊 TEST SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("   ✅ Passed: %d\n", passed)
	fmt.Printf("   ❌ Failed: %d\n", failed)

	if failed > 0 {
		fmt.Println("\n⚠️  The simulation needs recalibration")
		os.Exit(1)
	}
	fmt.Println("\n✅ The park is ready to open")
	os.Exit(0)
}
