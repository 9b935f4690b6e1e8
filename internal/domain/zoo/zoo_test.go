package zoo

import (
	"testing"

	"github.com/wildsim/ozzoo/internal/domain/animal"
	"github.com/wildsim/ozzoo/internal/domain/enclosure"
	"github.com/wildsim/ozzoo/internal/domain/finance"
	"github.com/wildsim/ozzoo/internal/domain/item"
)

func buildZoo(t *testing.T) *Zoo {
	t.Helper()
	z := New("OzZoo", finance.NewLedger(2000))
	forest := enclosure.New("Forest Enclosure", enclosure.HabitatForest, 4)
	grass := enclosure.New("Grassland Enclosure", enclosure.HabitatGrassland, 5)
	z.AddEnclosure(forest)
	z.AddEnclosure(grass)

	kiki, _ := animal.New(animal.SpeciesKoala, "Kiki", animal.SexFemale)
	koko, _ := animal.New(animal.SpeciesKoala, "Koko", animal.SexMale)
	joey, _ := animal.New(animal.SpeciesKangaroo, "Joey", animal.SexMale)
	if err := forest.Add(kiki); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := forest.Add(koko); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := grass.Add(joey); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return z
}

func TestFindAnimalByIDAndName(t *testing.T) {
	z := buildZoo(t)

	byName, enc := z.FindAnimal("kiki")
	if byName == nil || byName.Name != "Kiki" {
		t.Fatal("Expected to find Kiki by case-insensitive name")
	}
	if enc == nil || enc.Name != "Forest Enclosure" {
		t.Error("Expected Kiki to be reported in the Forest Enclosure")
	}

	byID, _ := z.FindAnimal(byName.ID)
	if byID != byName {
		t.Error("Expected ID lookup to return the same animal")
	}

	if a, _ := z.FindAnimal("nobody"); a != nil {
		t.Error("Expected unknown reference to return nil")
	}
}

func TestSpeciesCountAndAverages(t *testing.T) {
	z := buildZoo(t)

	if got := z.SpeciesCount(); got != 2 {
		t.Errorf("Expected 2 distinct species, got %d", got)
	}
	if got := z.AnimalCount(); got != 3 {
		t.Errorf("Expected 3 animals, got %d", got)
	}
	// Fresh animals and enclosures: everything at 100.
	if got := z.AvgCleanliness(); got != 100 {
		t.Errorf("Expected average cleanliness 100, got %f", got)
	}
	if got := z.AvgHappiness(); got != 100 {
		t.Errorf("Expected average happiness 100, got %f", got)
	}
}

func TestEmptyZooAverages(t *testing.T) {
	z := New("Ghost Zoo", finance.NewLedger(0))
	if got := z.AvgCleanliness(); got != 100 {
		t.Errorf("Expected 100 for zoo without enclosures, got %f", got)
	}
	if got := z.AvgHappiness(); got != 50 {
		t.Errorf("Expected neutral 50 for zoo without animals, got %f", got)
	}
	if got := z.SpeciesCount(); got != 0 {
		t.Errorf("Expected 0 species, got %d", got)
	}
}

func TestRemoveAnimal(t *testing.T) {
	z := buildZoo(t)
	joey, _ := z.FindAnimal("Joey")

	removed, from := z.RemoveAnimal(joey.ID)

	if removed != joey || from == nil || from.Name != "Grassland Enclosure" {
		t.Error("Expected Joey removed from the Grassland Enclosure")
	}
	if z.AnimalCount() != 2 {
		t.Errorf("Expected 2 animals left, got %d", z.AnimalCount())
	}
	if a, _ := z.FindAnimal(joey.ID); a != nil {
		t.Error("Expected removed animal to be unfindable")
	}
}

func TestStockBookkeeping(t *testing.T) {
	z := New("OzZoo", finance.NewLedger(100))
	z.AddStock(item.FoodSeeds, 5)

	if !z.ConsumeStock(item.FoodSeeds, 3) {
		t.Fatal("Expected to consume 3 of 5 seeds")
	}
	if z.StockOf(item.FoodSeeds) != 2 {
		t.Errorf("Expected 2 seeds left, got %d", z.StockOf(item.FoodSeeds))
	}
	if z.ConsumeStock(item.FoodSeeds, 3) {
		t.Error("Expected consuming beyond stock to fail")
	}
	if z.StockOf(item.FoodSeeds) != 2 {
		t.Errorf("Expected failed consumption to leave stock at 2, got %d", z.StockOf(item.FoodSeeds))
	}
}
