package main

import (
	"database/sql"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	ensureSchema(db)
	seedPlans(db)
	seedInsurance(db)
	seedServicePlans(db)
	seedDevices(db)
	seedPromotions(db)
	seedDiscountSettings(db)

	log.Println("Seeding completed successfully!")
}

func ensureSchema(db *sql.DB) {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS plans (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			pricing_model TEXT NOT NULL,
			tier_prices BIGINT[] NOT NULL DEFAULT '{}',
			first_line BIGINT NOT NULL DEFAULT 0,
			additional_line BIGINT NOT NULL DEFAULT 0,
			max_lines INT NOT NULL DEFAULT 0,
			taxes_included BOOLEAN NOT NULL DEFAULT FALSE,
			available_for TEXT[] NOT NULL DEFAULT '{}',
			allowed_discounts JSONB NOT NULL DEFAULT '{}'
		)`,
		`CREATE TABLE IF NOT EXISTS insurance_plans (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			price BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS service_plans (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			price BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS device_models (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			service_plan_id TEXT,
			tags TEXT[] NOT NULL DEFAULT '{}',
			variants JSONB NOT NULL DEFAULT '[]'
		)`,
		`CREATE TABLE IF NOT EXISTS promotions (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			conditions JSONB NOT NULL DEFAULT '[]',
			effects JSONB NOT NULL DEFAULT '[]',
			eligible_device_ids TEXT[] NOT NULL DEFAULT '{}',
			eligible_device_tags TEXT[] NOT NULL DEFAULT '{}',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			priority INT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS discount_settings (
			autopay_per_line BIGINT NOT NULL,
			insider_percent DOUBLE PRECISION NOT NULL,
			activation_fee BIGINT NOT NULL,
			upgrade_fee BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS quotes (
			id UUID PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL,
			config JSONB NOT NULL,
			totals JSONB NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("Failed to ensure schema: %v", err)
		}
	}
}

func seedPlans(db *sql.DB) {
	log.Println("Seeding plans...")
	plans := []struct {
		id, name, model string
		tiers           string
		first, add      int64
		maxLines        int
		taxesIncluded   bool
		availableFor    string
		allowed         string
	}{
		{"essentials", "Essentials", "tiered", "{10500,18000,23000,26000,29000}", 0, 0, 8, true,
			"{standard,military_first_responder,plus55}", `{"autopay":true,"insider":true,"thirdLineFree":true}`},
		{"premium", "Premium Unlimited", "tiered", "{13000,22000,28000,32000,36000}", 0, 0, 8, false,
			"{standard,military_first_responder,plus55}", `{"autopay":true,"insider":true,"thirdLineFree":true}`},
		{"military", "Military & First Responder", "tiered", "{9000,15000,19000,22000,25000}", 0, 0, 8, true,
			"{military_first_responder}", `{"autopay":true,"insider":false,"thirdLineFree":true}`},
		{"plus55", "55 Plus", "tiered", "{9500,16000}", 0, 0, 2, true,
			"{plus55}", `{"autopay":true,"insider":false,"thirdLineFree":false}`},
		{"flex", "Flex Prepaid", "flat", "{}", 5000, 3000, 10, false,
			"{standard,military_first_responder,plus55}", `{"autopay":true,"insider":false,"thirdLineFree":false}`},
	}
	for _, p := range plans {
		_, err := db.Exec(`
			INSERT INTO plans (id, name, pricing_model, tier_prices, first_line, additional_line,
			                   max_lines, taxes_included, available_for, allowed_discounts)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				pricing_model = EXCLUDED.pricing_model,
				tier_prices = EXCLUDED.tier_prices,
				first_line = EXCLUDED.first_line,
				additional_line = EXCLUDED.additional_line,
				max_lines = EXCLUDED.max_lines,
				taxes_included = EXCLUDED.taxes_included,
				available_for = EXCLUDED.available_for,
				allowed_discounts = EXCLUDED.allowed_discounts`,
			p.id, p.name, p.model, p.tiers, p.first, p.add, p.maxLines, p.taxesIncluded, p.availableFor, p.allowed)
		if err != nil {
			log.Fatalf("Failed to seed plan %s: %v", p.id, err)
		}
	}
}

func seedInsurance(db *sql.DB) {
	log.Println("Seeding insurance plans...")
	tiers := []struct {
		id, name string
		price    int64
	}{
		{"basic", "Basic Protection", 700},
		{"protect", "Protect", 1300},
		{"protect-plus", "Protect Plus", 1800},
	}
	for _, tier := range tiers {
		_, err := db.Exec(`
			INSERT INTO insurance_plans (id, name, price) VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price`,
			tier.id, tier.name, tier.price)
		if err != nil {
			log.Fatalf("Failed to seed insurance %s: %v", tier.id, err)
		}
	}
}

func seedServicePlans(db *sql.DB) {
	log.Println("Seeding service plans...")
	plans := []struct {
		id, name string
		price    int64
	}{
		{"watch-unlimited", "Watch Unlimited", 1200},
		{"tablet-data", "Tablet Data", 2000},
		{"hotspot-data", "Hotspot Data", 2500},
	}
	for _, p := range plans {
		_, err := db.Exec(`
			INSERT INTO service_plans (id, name, price) VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price`,
			p.id, p.name, p.price)
		if err != nil {
			log.Fatalf("Failed to seed service plan %s: %v", p.id, err)
		}
	}
}

func seedDevices(db *sql.DB) {
	log.Println("Seeding device models...")
	devices := []struct {
		id, name, category, servicePlan string
		tags                            string
		variants                        string
	}{
		{"galaxy-a25", "Galaxy A25", "phone", "", "{android,budget}",
			`[{"sku":"a25-128","name":"Galaxy A25 128GB","price":29900}]`},
		{"galaxy-s24", "Galaxy S24", "phone", "", "{android,flagship}",
			`[{"sku":"s24-256","name":"Galaxy S24 256GB","price":85900},{"sku":"s24-512","name":"Galaxy S24 512GB","price":99900}]`},
		{"iphone-15", "iPhone 15", "phone", "", "{ios,flagship}",
			`[{"sku":"ip15-128","name":"iPhone 15 128GB","price":82900},{"sku":"ip15-256","name":"iPhone 15 256GB","price":92900}]`},
		{"pixel-watch", "Pixel Watch 2", "connected", "watch-unlimited", "{android,wearable}",
			`[{"sku":"pw-41","name":"Pixel Watch 2 41mm","price":34900}]`},
		{"galaxy-tab", "Galaxy Tab S9", "connected", "tablet-data", "{android,tablet}",
			`[{"sku":"tab-s9-128","name":"Galaxy Tab S9 128GB","price":79900}]`},
	}
	for _, d := range devices {
		var servicePlan any
		if d.servicePlan != "" {
			servicePlan = d.servicePlan
		}
		_, err := db.Exec(`
			INSERT INTO device_models (id, name, category, service_plan_id, tags, variants)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				category = EXCLUDED.category,
				service_plan_id = EXCLUDED.service_plan_id,
				tags = EXCLUDED.tags,
				variants = EXCLUDED.variants`,
			d.id, d.name, d.category, servicePlan, d.tags, d.variants)
		if err != nil {
			log.Fatalf("Failed to seed device %s: %v", d.id, err)
		}
	}
}

func seedPromotions(db *sql.DB) {
	log.Println("Seeding promotions...")
	promos := []struct {
		id, name, category   string
		conditions, effects  string
		deviceIDs, deviceTag string
		active               bool
		priority             int
	}{
		{"family-line-discount", "Family Line Discount", "plan",
			`[{"field":"lines","operator":"greater_or_equal","value":4}]`,
			`[{"kind":"fixed_discount","amount":2000}]`,
			"{}", "{}", true, 10},
		{"new-line-credit", "New Line Credit", "account",
			`[{"field":"lines","operator":"greater_or_equal","value":2}]`,
			`[{"kind":"monthly_credit","amount":1000,"months":24}]`,
			"{}", "{}", true, 20},
		{"a25-on-us", "Galaxy A25 On Us", "device",
			`[]`,
			`[{"kind":"monthly_credit","amount":29900,"months":24}]`,
			"{galaxy-a25}", "{}", true, 30},
		{"android-trade-rebate", "Android Trade-In Rebate", "device",
			`[]`,
			`[{"kind":"device_rebate","amount":5000}]`,
			"{}", "{android}", true, 40},
		{"watch-plan-half-off", "Watch Plan Half Off", "connected",
			`[]`,
			`[{"kind":"service_plan_discount","amount":600}]`,
			"{pixel-watch}", "{}", true, 50},
		{"legacy-winter-promo", "Winter Promo 2025", "plan",
			`[]`,
			`[{"kind":"percent_discount","percent":10}]`,
			"{}", "{}", false, 60},
	}
	for _, p := range promos {
		_, err := db.Exec(`
			INSERT INTO promotions (id, name, category, conditions, effects,
			                        eligible_device_ids, eligible_device_tags, is_active, priority)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				category = EXCLUDED.category,
				conditions = EXCLUDED.conditions,
				effects = EXCLUDED.effects,
				eligible_device_ids = EXCLUDED.eligible_device_ids,
				eligible_device_tags = EXCLUDED.eligible_device_tags,
				is_active = EXCLUDED.is_active,
				priority = EXCLUDED.priority`,
			p.id, p.name, p.category, p.conditions, p.effects, p.deviceIDs, p.deviceTag, p.active, p.priority)
		if err != nil {
			log.Fatalf("Failed to seed promotion %s: %v", p.id, err)
		}
	}
}

func seedDiscountSettings(db *sql.DB) {
	log.Println("Seeding discount settings...")
	if _, err := db.Exec(`DELETE FROM discount_settings`); err != nil {
		log.Fatalf("Failed to reset discount settings: %v", err)
	}
	_, err := db.Exec(`
		INSERT INTO discount_settings (autopay_per_line, insider_percent, activation_fee, upgrade_fee)
		VALUES ($1, $2, $3, $4)`,
		500, 20.0, 3500, 3500)
	if err != nil {
		log.Fatalf("Failed to seed discount settings: %v", err)
	}
}
