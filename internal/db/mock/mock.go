package mock

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"packliste/internal/db"
	applog "packliste/internal/log"
	"packliste/models"
)

// DemoEmail and DemoPassword are the credentials of the seeded account.
const (
	DemoEmail    = "kueche@packliste.app"
	DemoPassword = "packliste"
)

// New returns an in-memory sqlite database seeded with a small catering catalogue.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	conn, err := gorm.Open(sqlite.Open("file:packliste-mock?mode=memory&cache=shared"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		PrepareStmt:                              true,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(conn); err != nil {
		return nil, err
	}

	var users int64
	if err := conn.WithContext(ctx).Model(&models.User{}).Count(&users).Error; err != nil {
		return nil, err
	}
	// The shared-cache database outlives a single New call within one process.
	if users == 0 {
		if err := seed(ctx, conn); err != nil {
			return nil, err
		}
	}

	applog.Debug(ctx, "mock database ready")
	return conn, nil
}

type seedProduct struct {
	name     string
	unit     string
	category string
	// optional packaging
	perPackage float64
	label      string
}

type seedLine struct {
	product    string
	ingredient string
	amount     float64
	unit       string
}

var (
	seedProducts = []seedProduct{
		{name: "Burger", unit: "Stück", category: "Gerichte"},
		{name: "Wrap", unit: "Stück", category: "Gerichte"},
		{name: "Pommes", unit: "Portion", category: "Gerichte"},
		{name: "Bun", unit: "Stück", category: "Backwaren", perPackage: 20, label: "Sack"},
		{name: "Tortilla", unit: "Stück", category: "Backwaren", perPackage: 18, label: "Packung"},
		{name: "Patty", unit: "g", category: "Kühlware", perPackage: 1000, label: "Packung"},
		{name: "Cheddar", unit: "Scheibe", category: "Kühlware", perPackage: 84, label: "Packung"},
		{name: "Hähnchenstreifen", unit: "g", category: "Kühlware", perPackage: 2500, label: "Beutel"},
		{name: "Eisbergsalat", unit: "g", category: "Gemüse", perPackage: 500, label: "Kopf"},
		{name: "Tomate", unit: "g", category: "Gemüse", perPackage: 6000, label: "Kiste"},
		{name: "Burgersauce", unit: "ml", category: "Trockenware", perPackage: 875, label: "Flasche"},
		{name: "Pommes TK", unit: "g", category: "Tiefkühl", perPackage: 2500, label: "Beutel"},
		{name: "Frittierfett", unit: "ml", category: "Trockenware"},
		{name: "Salz", unit: "g", category: "Trockenware"},
	}

	seedLines = []seedLine{
		{"Burger", "Bun", 1, "Stück"},
		{"Burger", "Patty", 150, "g"},
		{"Burger", "Cheddar", 1, "Scheibe"},
		{"Burger", "Eisbergsalat", 20, "g"},
		{"Burger", "Tomate", 30, "g"},
		{"Burger", "Burgersauce", 25, "ml"},
		{"Wrap", "Tortilla", 1, "Stück"},
		{"Wrap", "Hähnchenstreifen", 120, "g"},
		{"Wrap", "Eisbergsalat", 30, "g"},
		{"Wrap", "Tomate", 25, "g"},
		{"Wrap", "Burgersauce", 20, "ml"},
		{"Pommes", "Pommes TK", 180, "g"},
		{"Pommes", "Frittierfett", 15, "ml"},
		{"Pommes", "Salz", 2, "g"},
	}
)

func seed(ctx context.Context, conn *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	password, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := &models.User{
			Name:         "Küche Nord",
			Email:        DemoEmail,
			PasswordHash: string(password),
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		categories := map[string]uint{}
		products := map[string]uint{}
		for _, sp := range seedProducts {
			categoryID, ok := categories[sp.category]
			if !ok {
				category := models.Category{Name: sp.category}
				if err := tx.Create(&category).Error; err != nil {
					return err
				}
				categoryID = category.ID
				categories[sp.category] = categoryID
			}

			product := models.Product{Name: sp.name, Unit: sp.unit, CategoryID: &categoryID}
			if err := tx.Create(&product).Error; err != nil {
				return err
			}
			products[sp.name] = product.ID

			if sp.label == "" {
				continue
			}
			packaging := models.PackagingUnit{ProductID: product.ID, AmountPerPackage: sp.perPackage, Label: sp.label}
			if err := tx.Create(&packaging).Error; err != nil {
				return err
			}
		}

		for _, sl := range seedLines {
			line := models.RecipeLine{
				ProductID:    products[sl.product],
				IngredientID: products[sl.ingredient],
				Amount:       sl.amount,
				Unit:         sl.unit,
			}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
		}

		event := models.Event{
			Name:     "Sommerfest Stadtwerke",
			Date:     time.Now().UTC().AddDate(0, 0, 14).Truncate(24 * time.Hour),
			Location: "Festwiese",
			Notes:    "Aufbau ab 10 Uhr, Strom vor Ort.",
			Products: []models.EventProduct{
				{ProductID: products["Burger"], Quantity: 120, Unit: "Stück"},
				{ProductID: products["Wrap"], Quantity: 60, Unit: "Stück"},
				{ProductID: products["Pommes"], Quantity: 150, Unit: "Portion"},
			},
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		order := models.Order{
			Title:   "Bestellung " + event.Name,
			Status:  models.OrderStatusOpen,
			EventID: &event.ID,
			Items: []models.OrderItem{
				{ProductID: products["Burger"], Quantity: 120, Unit: "Stück"},
				{ProductID: products["Wrap"], Quantity: 60, Unit: "Stück"},
			},
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		applog.Debug(ctx, "mock database seeded", "products", len(products), "recipe_lines", len(seedLines))
		return nil
	})
}
