package fulfillment

import (
	"context"
	"errors"
	"testing"

	"mothernatural-backend/pkg/config"
	"mothernatural-backend/services/catalog"
	"mothernatural-backend/services/game"
	"mothernatural-backend/services/loyalty"
	"mothernatural-backend/services/mail"
	"mothernatural-backend/services/settings"
	"mothernatural-backend/services/testutil"
	"mothernatural-backend/services/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeSender struct {
	subjects []string
	to       []string
	fail     bool
}

func (f *fakeSender) Send(_ context.Context, to, subject, _ string) (string, error) {
	if f.fail {
		return "", errors.New("smtp down")
	}
	f.to = append(f.to, to)
	f.subjects = append(f.subjects, subject)
	return "msg_1", nil
}

type fixture struct {
	svc     *Service
	db      *gorm.DB
	sender  *fakeSender
	catalog *catalog.Service
	users   *user.Service
	game    *game.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t,
		&user.User{},
		&catalog.Product{},
		&catalog.ServiceOffering{},
		&catalog.Class{},
		&catalog.Retreat{},
		&catalog.Fundraiser{},
		&game.PlantGame{},
		&game.GameReward{},
		&mail.EmailLog{},
		&settings.LowStockSettings{},
		&settings.LoyaltySettings{},
		&settings.GameSettings{},
	)

	cfg := &config.Config{BusinessName: "Mother Natural"}
	cfg.JWT.Secret = "test-secret"
	cfg.Email.AdminEmail = "owner@example.com"

	sender := &fakeSender{}
	settingsSvc := settings.NewService(settings.ServiceParams{DB: db})
	catalogSvc := catalog.NewService(catalog.ServiceParams{DB: db})
	userSvc := user.NewService(user.ServiceParams{DB: db, Config: cfg, Settings: settingsSvc})
	gameSvc := game.NewService(game.ServiceParams{DB: db, Settings: settingsSvc})
	loyaltySvc := loyalty.NewService(loyalty.ServiceParams{DB: db, Settings: settingsSvc, Game: gameSvc})
	mailSvc := mail.NewService(mail.ServiceParams{DB: db, Sender: sender})

	svc := NewService(ServiceParams{
		Config:   cfg,
		Catalog:  catalogSvc,
		Settings: settingsSvc,
		Users:    userSvc,
		Loyalty:  loyaltySvc,
		Game:     gameSvc,
		Mail:     mailSvc,
	})

	return &fixture{svc: svc, db: db, sender: sender, catalog: catalogSvc, users: userSvc, game: gameSvc}
}

func (f *fixture) seedProduct(t *testing.T, name string, stock, threshold int) *catalog.Product {
	t.Helper()
	row, err := f.catalog.CreateProduct(context.Background(), &catalog.Product{
		Name:              name,
		Price:             10,
		Stock:             stock,
		LowStockThreshold: threshold,
	})
	require.NoError(t, err)
	return row
}

func (f *fixture) seedMember(t *testing.T, email string) *user.User {
	t.Helper()
	record := &user.User{ID: uuid.NewString(), Name: "Member", Email: email}
	require.NoError(t, f.db.Create(record).Error)
	return record
}

func TestFulfillHappyPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	product := f.seedProduct(t, "Healing Salve", 10, 0)
	member := f.seedMember(t, "buyer@example.com")

	result := f.svc.Fulfill(ctx, &Request{
		OrderID:       "o1",
		OrderCode:     "ORD-1",
		CustomerEmail: member.Email,
		CustomerName:  member.Name,
		Items:         []Item{{ID: product.ID, Name: product.Name, Quantity: 2, Amount: 2000}},
		TotalAmount:   6000,
	})

	assert.True(t, result.ReceiptSent)
	assert.Empty(t, result.StockAlerts)
	assert.EqualValues(t, 60, result.PointsAwarded)

	fresh, err := f.catalog.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, fresh.Stock)

	var account user.User
	require.NoError(t, f.db.First(&account, "id = ?", member.ID).Error)
	assert.EqualValues(t, 60, account.LoyaltyPoints)
}

func TestFulfillReceiptFailureDoesNotBlockStock(t *testing.T) {
	f := newFixture(t)
	f.sender.fail = true
	ctx := context.Background()

	product := f.seedProduct(t, "Tea Blend", 10, 0)

	result := f.svc.Fulfill(ctx, &Request{
		OrderID:       "o1",
		OrderCode:     "ORD-1",
		CustomerEmail: "guest@example.com",
		Items:         []Item{{ID: product.ID, Name: product.Name, Quantity: 1, Amount: 800}},
		TotalAmount:   800,
	})

	assert.False(t, result.ReceiptSent)

	fresh, err := f.catalog.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, fresh.Stock, "stock deduction must survive a mail outage")
}

func TestFulfillLowStockAlertBand(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Default threshold is 5. Selling down to 3 is inside the band.
	inBand := f.seedProduct(t, "Clay Mask", 5, 0)
	// Selling out entirely leaves stock at 0, outside the band.
	soldOut := f.seedProduct(t, "Candle", 2, 0)

	result := f.svc.Fulfill(ctx, &Request{
		OrderID:       "o1",
		OrderCode:     "ORD-1",
		CustomerEmail: "guest@example.com",
		Items: []Item{
			{ID: inBand.ID, Name: inBand.Name, Quantity: 2, Amount: 2000},
			{ID: soldOut.ID, Name: soldOut.Name, Quantity: 4, Amount: 2000},
		},
		TotalAmount: 4000,
	})

	assert.Equal(t, []string{"Clay Mask"}, result.StockAlerts)

	fresh, err := f.catalog.GetProduct(ctx, soldOut.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.Stock, "oversell floors at zero")
	assert.False(t, fresh.InStock)

	// Receipt to the guest plus one alert to the owner.
	assert.Contains(t, f.sender.to, "owner@example.com")
	assert.Contains(t, f.sender.subjects, "Low stock: Clay Mask")
}

func TestFulfillPerProductThresholdOverride(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	product := f.seedProduct(t, "Elixir", 12, 10)

	result := f.svc.Fulfill(ctx, &Request{
		OrderID:       "o1",
		OrderCode:     "ORD-1",
		CustomerEmail: "guest@example.com",
		Items:         []Item{{ID: product.ID, Name: product.Name, Quantity: 3, Amount: 900}},
		TotalAmount:   900,
	})

	assert.Equal(t, []string{"Elixir"}, result.StockAlerts, "product threshold of 10 catches stock at 9")
}

func TestFulfillAlertsRepeatAcrossOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	product := f.seedProduct(t, "Soap Bar", 6, 0)

	for i := 0; i < 2; i++ {
		result := f.svc.Fulfill(ctx, &Request{
			OrderID:       "o",
			OrderCode:     "ORD",
			CustomerEmail: "guest@example.com",
			Items:         []Item{{ID: product.ID, Name: product.Name, Quantity: 1, Amount: 500}},
			TotalAmount:   500,
		})
		assert.Equal(t, []string{"Soap Bar"}, result.StockAlerts, "order %d", i+1)
	}
}

func TestFulfillSkipsNonProductItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result := f.svc.Fulfill(ctx, &Request{
		OrderID:       "o1",
		OrderCode:     "ORD-1",
		CustomerEmail: "guest@example.com",
		Items:         []Item{{ID: "appointment-" + uuid.NewString(), Name: "Reiki Session", Quantity: 1, Amount: 9500}},
		TotalAmount:   9500,
	})

	assert.True(t, result.ReceiptSent)
	assert.Empty(t, result.StockAlerts)
}

func TestFulfillVariantSuffixDeductsBaseProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	product := f.seedProduct(t, "Body Butter", 10, 0)

	f.svc.Fulfill(ctx, &Request{
		OrderID:       "o1",
		OrderCode:     "ORD-1",
		CustomerEmail: "guest@example.com",
		Items:         []Item{{ID: product.ID + "-large", Name: "Body Butter (Large)", Quantity: 1, Amount: 1800}},
		TotalAmount:   1800,
	})

	fresh, err := f.catalog.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, fresh.Stock)
}

func TestFulfillGuestEarnsNoPoints(t *testing.T) {
	f := newFixture(t)

	result := f.svc.Fulfill(context.Background(), &Request{
		OrderID:       "o1",
		OrderCode:     "ORD-1",
		CustomerEmail: "stranger@example.com",
		TotalAmount:   5000,
	})

	assert.Zero(t, result.PointsAwarded)
}

func TestFulfillGrowsMemberPlant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	member := f.seedMember(t, "gardener@example.com")
	_, err := f.game.Start(ctx, member.ID, &game.StartRequest{RewardType: "product", ManifestationID: "abundance"})
	require.NoError(t, err)

	f.svc.Fulfill(ctx, &Request{
		OrderID:       "o1",
		OrderCode:     "ORD-1",
		CustomerEmail: member.Email,
		TotalAmount:   5000,
	})

	plant, err := f.game.ActiveGame(ctx, member.ID)
	require.NoError(t, err)
	require.NotNil(t, plant)
	assert.Equal(t, 10.0, plant.GrowthPercentage, "a $50 order earns the large growth bonus")
}
