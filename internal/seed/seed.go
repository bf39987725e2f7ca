// Package seed fills a database with a realistic demo herd.
package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/repository/sqldb"
	"github.com/mamadbah2/herdbook/internal/service/auth"
	"github.com/mamadbah2/herdbook/internal/service/reporting"
	"github.com/mamadbah2/herdbook/internal/stats"
)

const healthRecords = 100

var (
	cattleNames = []string{
		"Bella", "Daisy", "Molly", "Luna", "Lucy", "Maggie", "Sophie", "Chloe",
		"Max", "Charlie", "Buddy", "Rocky", "Jack", "Toby", "Duke", "Bear",
		"Rosie", "Penny", "Ginger", "Ruby", "Stella", "Lily", "Grace", "Emma",
	}
	breeds = []string{
		"Holstein", "Jersey", "Guernsey", "Ayrshire", "Brown Swiss",
		"Hereford", "Angus", "Charolais", "Simmental", "Limousin",
	}
	veterinarians = []string{
		"Dr. Sarah Johnson", "Dr. Michael Chen", "Dr. Emily Rodriguez",
		"Dr. James Wilson", "Dr. Lisa Anderson",
	}
	suppliers = []string{
		"Green Pastures Feed Co.", "Farm Supply Depot", "AgriFeed Solutions",
		"Premium Livestock Nutrition", "Rural Feed & Grain",
	}
	healthNotes = []string{"Routine procedure", "Follow-up required", "No complications", "Monitor for 48 hours", ""}
	milkNotes   = []string{"Normal production", "Slightly below average", "Above average yield", ""}
	feedNotes   = []string{"Daily feeding", "Extra ration for pregnant cows", "Regular distribution", ""}
)

// Options sizes the generated data.
type Options struct {
	Days     int
	Cattle   int
	Password string
	// Seed makes the run reproducible. Zero picks a random seed.
	Seed uint64
}

// Result counts what was written.
type Result struct {
	Users         int
	Cattle        int
	HealthRecords int
	MilkRecords   int
	FeedRecords   int
	Summaries     int
}

// Seeder writes demo data through the repositories.
type Seeder struct {
	stores    *sqldb.Stores
	reporting *reporting.Service
	loc       *time.Location
	now       func() time.Time
	logger    *zap.Logger
}

func New(stores *sqldb.Stores, rep *reporting.Service, loc *time.Location, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Seeder{stores: stores, reporting: rep, loc: loc, now: time.Now, logger: logger}
}

// Run wipes every table and regenerates users, cattle, health records, daily milk
// and feed usage, and one DailySummary per day.
func (s *Seeder) Run(ctx context.Context, opts Options) (Result, error) {
	var res Result
	switch {
	case opts.Days <= 0:
		return res, errors.New("days must be positive")
	case opts.Cattle <= 0 || opts.Cattle > 90000:
		return res, errors.New("cattle must be between 1 and 90000")
	case opts.Password == "":
		return res, errors.New("a seed password is required")
	}

	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	g := &gen{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
	today := stats.StartOfDay(s.now().In(s.loc))

	s.logger.Info("wiping existing data")
	if err := s.stores.Wipe(ctx); err != nil {
		return res, err
	}

	var err error
	if res.Users, err = s.users(ctx, opts.Password); err != nil {
		return res, err
	}

	herd, err := s.cattle(ctx, g, today, opts.Cattle)
	if err != nil {
		return res, err
	}
	res.Cattle = len(herd)

	if res.HealthRecords, err = s.health(ctx, g, today, herd); err != nil {
		return res, err
	}

	if res.MilkRecords, err = s.milk(ctx, g, today, herd, opts.Days); err != nil {
		return res, err
	}

	if res.FeedRecords, err = s.feed(ctx, g, today, opts.Days); err != nil {
		return res, err
	}

	for day := 0; day < opts.Days; day++ {
		summary, err := s.reporting.BuildDailySummary(ctx, today.AddDate(0, 0, -day))
		if err != nil {
			return res, err
		}
		if err := s.stores.Summaries.Upsert(ctx, summary); err != nil {
			return res, err
		}
		res.Summaries++
	}

	s.logger.Info("seed completed",
		zap.Int("users", res.Users),
		zap.Int("cattle", res.Cattle),
		zap.Int("health_records", res.HealthRecords),
		zap.Int("milk_records", res.MilkRecords),
		zap.Int("feed_records", res.FeedRecords),
		zap.Int("summaries", res.Summaries),
	)
	return res, nil
}

func (s *Seeder) users(ctx context.Context, password string) (int, error) {
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return 0, err
	}
	accounts := []models.User{
		{Email: "admin@herdbook.local", Name: "Admin User", Role: models.RoleAdmin},
		{Email: "manager@herdbook.local", Name: "Farm Manager", Role: models.RoleManager},
		{Email: "vet@herdbook.local", Name: "Dr. Sarah Johnson", Role: models.RoleVeterinarian},
		{Email: "worker@herdbook.local", Name: "Farm Worker", Role: models.RoleWorker},
	}
	for i := range accounts {
		accounts[i].Password = hashed
		if err := s.stores.Users.Create(ctx, &accounts[i]); err != nil {
			return i, err
		}
	}
	return len(accounts), nil
}

func (s *Seeder) cattle(ctx context.Context, g *gen, today time.Time, n int) ([]models.Cattle, error) {
	tags := make(map[string]struct{}, n)
	herd := make([]models.Cattle, 0, n)

	for len(herd) < n {
		tag := fmt.Sprintf("TAG-%05d", 10000+g.rng.IntN(90000))
		if _, dup := tags[tag]; dup {
			continue
		}
		tags[tag] = struct{}{}

		gender := pick(g, []models.Gender{models.GenderMale, models.GenderFemale})
		age := g.intBetween(0, 8)
		born := time.Date(today.Year()-age, time.Month(g.intBetween(1, 12)), g.intBetween(1, 28), 0, 0, 0, 0, s.loc)

		var category models.CattleCategory
		switch {
		case age < 1:
			category = models.CategoryCalf
		case gender == models.GenderFemale && age < 2:
			category = models.CategoryHeifer
		case gender == models.GenderFemale:
			category = models.CategoryCow
		case g.intBetween(1, 10) <= 2:
			category = models.CategorySteer
		default:
			category = models.CategoryBull
		}

		var weight float64
		switch category {
		case models.CategoryCalf:
			weight = g.floatBetween(30, 150)
		case models.CategoryHeifer:
			weight = g.floatBetween(200, 400)
		default:
			weight = g.floatBetween(400, 800)
		}
		weight = stats.Round(weight, 1)
		name := pick(g, cattleNames)

		c := models.Cattle{
			TagNumber:   tag,
			Name:        &name,
			Gender:      gender,
			Breed:       pick(g, breeds),
			DateOfBirth: born.UTC(),
			Weight:      &weight,
			Status:      pick(g, []models.CattleStatus{models.CattleActive, models.CattleActive, models.CattleActive, models.CattleQuarantined, models.CattleSold}),
			Category:    category,
		}
		if err := s.stores.Cattle.Create(ctx, &c); err != nil {
			return nil, err
		}
		herd = append(herd, c)
	}

	var cows []int
	for i, c := range herd {
		if c.Category == models.CategoryCow && c.Status == models.CattleActive {
			cows = append(cows, i)
		}
	}
	if len(cows) == 0 {
		return herd, nil
	}

	linked := 0
	for i := range herd {
		if herd[i].Category != models.CategoryCalf || linked >= len(cows) {
			continue
		}
		mother := herd[pick(g, cows)]
		herd[i].MotherID = &mother.ID
		if err := s.stores.Cattle.Update(ctx, &herd[i]); err != nil {
			return nil, err
		}
		linked++
	}
	return herd, nil
}

func (s *Seeder) health(ctx context.Context, g *gen, today time.Time, herd []models.Cattle) (int, error) {
	types := []models.HealthRecordType{models.RecordVaccination, models.RecordDeworming, models.RecordCheckup, models.RecordTreatment, models.RecordSurgery}
	vaccines := []models.VaccinationType{models.VaccineFMD, models.VaccineBrucellosis, models.VaccineAnthrax, models.VaccineBlackleg, models.VaccineRabies, models.VaccineOther}
	now := s.now()

	for i := 0; i < healthRecords; i++ {
		animal := pick(g, herd)
		recordType := pick(g, types)
		scheduled := today.AddDate(0, 0, -g.intBetween(0, 180)).Add(time.Duration(g.intBetween(8, 17)) * time.Hour)
		vet := pick(g, veterinarians)
		cost := stats.Round(g.floatBetween(50, 500), 2)

		label := animal.TagNumber
		if animal.Name != nil {
			label = *animal.Name
		}
		rec := models.HealthRecord{
			CattleID:      animal.ID,
			RecordType:    recordType,
			Description:   fmt.Sprintf("%s for %s", recordType, label),
			ScheduledDate: scheduled.UTC(),
			Veterinarian:  &vet,
			Cost:          &cost,
			Notes:         optional(pick(g, healthNotes)),
		}
		if recordType == models.RecordVaccination {
			v := pick(g, vaccines)
			rec.VaccinationType = &v
		}

		switch {
		case g.rng.Float64() > 0.3:
			done := scheduled.AddDate(0, 0, g.intBetween(0, 7)).UTC()
			rec.CompletedDate = &done
			rec.Status = models.HealthCompleted
		case scheduled.Before(now):
			rec.Status = models.HealthOverdue
		default:
			rec.Status = models.HealthPending
		}

		if err := s.stores.Health.Create(ctx, &rec); err != nil {
			return i, err
		}
	}
	return healthRecords, nil
}

func (s *Seeder) milk(ctx context.Context, g *gen, today time.Time, herd []models.Cattle, days int) (int, error) {
	var cows []models.Cattle
	for _, c := range herd {
		if c.Category == models.CategoryCow && c.Status == models.CattleActive {
			cows = append(cows, c)
		}
	}
	if len(cows) == 0 {
		return 0, nil
	}

	sessions := []models.MilkSession{models.SessionMorning, models.SessionAfternoon, models.SessionEvening}
	qualities := []models.MilkQuality{models.QualityExcellent, models.QualityGood, models.QualityGood, models.QualityFair, models.QualityPoor}
	written := 0

	for day := 0; day < days; day++ {
		date := today.AddDate(0, 0, -day).Add(6 * time.Hour)
		milking := g.intBetween(min(15, len(cows)), len(cows))
		for _, cow := range cows[:milking] {
			id := cow.ID
			rec := models.MilkRecord{
				CattleID: &id,
				Date:     date.UTC(),
				Liters:   stats.Round(g.floatBetween(8, 25), 1),
				Session:  pick(g, sessions),
				Quality:  pick(g, qualities),
				Notes:    optional(pick(g, milkNotes)),
			}
			if err := s.stores.Milk.Create(ctx, &rec); err != nil {
				return written, err
			}
			written++
		}
	}
	return written, nil
}

func (s *Seeder) feed(ctx context.Context, g *gen, today time.Time, days int) (int, error) {
	types := []models.FeedType{models.FeedHay, models.FeedConcentrate, models.FeedSilage, models.FeedMineralSupplement, models.FeedGrain}
	inventories := make([]models.FeedInventory, 0, len(types))

	for _, ft := range types {
		qty := g.floatBetween(500, 2000)
		restocked := today.AddDate(0, 0, -g.intBetween(0, 30)).UTC()
		expiry := restocked.AddDate(0, g.intBetween(3, 12), 0)
		cost := stats.Round(g.floatBetween(1000, 5000), 2)
		supplier := pick(g, suppliers)

		inv := models.FeedInventory{
			FeedType:      ft,
			Quantity:      stats.Round(qty, 1),
			Unit:          "kg",
			MinThreshold:  stats.Round(qty*0.2, 1),
			Cost:          &cost,
			Supplier:      &supplier,
			LastRestocked: &restocked,
			ExpiryDate:    &expiry,
		}
		if err := s.stores.Feed.Create(ctx, &inv); err != nil {
			return 0, err
		}
		inventories = append(inventories, inv)
	}

	written := 0
	for day := 0; day < days; day++ {
		date := today.AddDate(0, 0, -day).Add(7 * time.Hour)
		for _, inv := range inventories {
			if g.rng.Float64() <= 0.3 {
				continue
			}
			rec := models.FeedRecord{
				InventoryID:  inv.ID,
				Date:         date.UTC(),
				QuantityUsed: stats.Round(g.floatBetween(50, 200), 1),
				Notes:        optional(pick(g, feedNotes)),
			}
			if err := s.stores.Feed.ConsumeClamped(ctx, &rec); err != nil {
				return written, err
			}
			written++
		}
	}
	return written, nil
}

type gen struct {
	rng *rand.Rand
}

func (g *gen) intBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.IntN(hi-lo+1)
}

func (g *gen) floatBetween(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func pick[T any](g *gen, items []T) T {
	return items[g.rng.IntN(len(items))]
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
