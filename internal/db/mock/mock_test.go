package mock

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"packliste/internal/catalog"
	"packliste/internal/ingredients"
	"packliste/models"
)

func TestNewSeedsExpectedRecords(t *testing.T) {
	ctx := context.Background()
	db, err := New(ctx)
	if err != nil {
		t.Fatalf("mock database initialization failed: %v", err)
	}

	var products []models.Product
	if err := db.WithContext(ctx).Find(&products).Error; err != nil {
		t.Fatalf("query products: %v", err)
	}
	if len(products) != len(seedProducts) {
		t.Fatalf("expected %d seeded products, got %d", len(seedProducts), len(products))
	}

	var lines []models.RecipeLine
	if err := db.WithContext(ctx).Find(&lines).Error; err != nil {
		t.Fatalf("query recipe lines: %v", err)
	}
	if len(lines) != len(seedLines) {
		t.Fatalf("expected %d recipe lines, got %d", len(seedLines), len(lines))
	}

	var user models.User
	if err := db.WithContext(ctx).Where("email = ?", DemoEmail).First(&user).Error; err != nil {
		t.Fatalf("query user: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(DemoPassword)); err != nil {
		t.Fatalf("unexpected password hash: %v", err)
	}

	// A second call reuses the shared database without seeding twice.
	again, err := New(ctx)
	if err != nil {
		t.Fatalf("second initialization failed: %v", err)
	}
	var users int64
	if err := again.WithContext(ctx).Model(&models.User{}).Count(&users).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if users != 1 {
		t.Fatalf("expected a single seeded user, got %d", users)
	}
}

func TestSeededEventAggregates(t *testing.T) {
	ctx := context.Background()
	db, err := New(ctx)
	if err != nil {
		t.Fatalf("mock database initialization failed: %v", err)
	}

	var event models.Event
	if err := db.WithContext(ctx).First(&event).Error; err != nil {
		t.Fatalf("query event: %v", err)
	}

	store := catalog.NewStore(db)
	selections, err := store.EventSelections(ctx, event.ID)
	if err != nil {
		t.Fatalf("event selections: %v", err)
	}

	recs, err := ingredients.NewService(store).AggregateAndProject(ctx, selections)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}

	byName := map[string]ingredients.PurchaseRecommendation{}
	for _, rec := range recs {
		byName[rec.IngredientName] = rec
	}

	// 120 burgers at one bun each, 20 buns per Sack.
	bun, ok := byName["Bun"]
	if !ok {
		t.Fatal("expected Bun in the seeded packing list")
	}
	if !bun.Total.Equal(decimal.NewFromInt(120)) || bun.PackageCount != 6 || bun.PackageLabel != "Sack" {
		t.Fatalf("unexpected bun recommendation: %+v", bun)
	}

	// 120×20 g + 60×30 g lettuce.
	if lettuce := byName["Eisbergsalat"]; !lettuce.Total.Equal(decimal.NewFromInt(4200)) {
		t.Fatalf("unexpected lettuce total: %s", lettuce.Total)
	}

	// No packaging row: the base unit is the fallback label.
	if fat := byName["Frittierfett"]; fat.PackageLabel != "ml" {
		t.Fatalf("expected base unit label for Frittierfett, got %q", fat.PackageLabel)
	}
}
