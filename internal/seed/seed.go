package seed

import (
	"errors"
	"log"
	"time"

	"barangay/internal/model"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type staffAccount struct {
	firstName string
	lastName  string
	contact   string
	password  string
	role      string
}

var defaultStaff = []staffAccount{
	{firstName: "Barangay", lastName: "Admin", contact: "09170000001", password: "admin123", role: model.RoleAdmin},
	{firstName: "Barangay", lastName: "Secretary", contact: "09170000002", password: "secretary123", role: model.RoleSecretary},
}

type catalogEntry struct {
	name        string
	description string
	fee         string
}

var defaultCatalog = []catalogEntry{
	{name: "Barangay Clearance", description: "General-purpose clearance certifying good standing", fee: "50.00"},
	{name: "Certificate of Residency", description: "Certifies the holder resides in the barangay", fee: "30.00"},
	{name: "Certificate of Indigency", description: "Certifies indigent status for fee waivers", fee: "0.00"},
	{name: "Business Permit", description: "Barangay-level permit for small businesses", fee: "200.00"},
}

// Run seeds default staff accounts and the document catalog. Idempotent:
// existing records are left untouched, so it is safe on every startup.
func Run(db *gorm.DB) error {
	if err := seedStaff(db); err != nil {
		return err
	}
	return seedCatalog(db)
}

func seedStaff(db *gorm.DB) error {
	for _, acct := range defaultStaff {
		var existing model.User
		err := db.First(&existing, "contact = ?", acct.contact).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(acct.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		user := model.User{
			FirstName:   acct.firstName,
			LastName:    acct.lastName,
			DOB:         mustDate("1990-01-01"),
			Gender:      "N/A",
			CivilStatus: "N/A",
			Contact:     acct.contact,
			Purok:       "N/A",
			Barangay:    "San Isidro",
			City:        "N/A",
			Province:    "N/A",
			PostalCode:  "0000",
			Password:    string(hashed),
			Photo:       "default.png",
			Role:        acct.role,
			Status:      model.UserStatusApproved,
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
		log.Printf("Seeded %s account (%s)", acct.role, acct.contact)
	}
	return nil
}

func mustDate(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func seedCatalog(db *gorm.DB) error {
	for _, entry := range defaultCatalog {
		var existing model.DocumentType
		err := db.First(&existing, "name = ?", entry.name).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		fee, err := decimal.NewFromString(entry.fee)
		if err != nil {
			return err
		}

		docType := model.DocumentType{
			Name:        entry.name,
			Description: entry.description,
			Fee:         fee,
			Active:      true,
		}
		if err := db.Create(&docType).Error; err != nil {
			return err
		}
		log.Printf("Seeded document type %q", entry.name)
	}
	return nil
}
