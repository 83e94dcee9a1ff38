package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"staydesk-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "UTC")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "staydesk_db")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		user, pass, host, port, dbName,
	)
	return dsn, nil
}

// SeedDatabase inserts the initial admin principal and a demo property with
// room types and units. Idempotent: skips anything already present.
func SeedDatabase() {
	// ---------------- Admins ----------------
	var adminCount int64
	DB.Model(&models.Admin{}).Count(&adminCount)
	if adminCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(envOrDefault("SEED_ADMIN_PASSWORD", "admin123")), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default admin password: %v", err)
		} else {
			admin := models.Admin{
				FullName: "Admin User",
				Username: "admin@staydesk.local",
				Password: string(hash),
			}
			if err := DB.Create(&admin).Error; err != nil {
				log.Printf("warning: failed to create default admin: %v", err)
			} else {
				log.Println("Default admin seeded")
			}
		}
	}

	// ---------------- Property + RoomTypes + Units ----------------
	var propCount int64
	DB.Model(&models.Property{}).Count(&propCount)
	if propCount > 0 {
		log.Println("Properties already seeded")
		return
	}

	property := models.Property{
		Name:    "StayDesk Demo Hotel",
		Address: "1 Beachfront Road",
		Email:   "frontdesk@staydesk.local",
	}
	if err := DB.Create(&property).Error; err != nil {
		log.Printf("warning: failed to seed property: %v", err)
		return
	}

	roomTypes := []models.RoomType{
		{PropertyID: property.ID, Name: "Standard", Description: "Standard Room", Price: 1200, MaxGuests: 2},
		{PropertyID: property.ID, Name: "Superior", Description: "Superior Room", Price: 1800, MaxGuests: 3},
		{PropertyID: property.ID, Name: "Deluxe", Description: "Deluxe Room", Price: 2600, MaxGuests: 4},
	}
	if err := DB.Create(&roomTypes).Error; err != nil {
		log.Printf("warning: failed to seed room types: %v", err)
		return
	}

	unitsPerType := map[string]int{"Standard": 6, "Superior": 4, "Deluxe": 2}
	for i, rt := range roomTypes {
		n := unitsPerType[rt.Name]
		units := make([]models.Unit, 0, n)
		for j := 0; j < n; j++ {
			units = append(units, models.Unit{
				RoomTypeID: rt.ID,
				UnitNumber: fmt.Sprintf("%d%02d", i+1, j+1),
				Floor:      fmt.Sprintf("%d", i+1),
				IsActive:   true,
			})
		}
		if err := DB.Create(&units).Error; err != nil {
			log.Printf("warning: failed to seed units for %s: %v", rt.Name, err)
		}
	}

	log.Println("Demo property, room types and units seeded")
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	// AutoMigrate in parent->child order
	if err := DB.AutoMigrate(
		&models.Admin{},
		&models.Property{},
		&models.RoomType{},
		&models.Unit{},
		&models.Reservation{},
		&models.ReservationRoom{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
