package config

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Shineselorm/learnlab-api/models"
)

var Database *gorm.DB

// Connect opens the database named by DATABASE_URL and migrates the
// schema. "sqlite://<path>" selects sqlite, anything else is treated as
// a postgres DSN.
func Connect() error {
	db, err := Open(Cfg.DatabaseURL)
	if err != nil {
		return err
	}
	Database = db
	return Migrate(db)
}

// Open dials the database without migrating.
func Open(url string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if path, ok := strings.CutPrefix(url, "sqlite://"); ok {
		dialector = sqlite.Open(path)
	} else {
		dialector = postgres.Open(url)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.Follow{},
		&models.AuthToken{},
		&models.Permission{},
		&models.Group{},
		&models.Author{},
		&models.Book{},
		&models.Library{},
		&models.Librarian{},
		&models.BookReview{},
		&models.ReadingList{},
		&models.Post{},
		&models.Tag{},
		&models.Comment{},
		&models.Like{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto migrate database: %w", err)
	}
	return SeedGroups(db)
}

// SeedGroups ensures the permission codes and the three default groups
// exist. Safe to run repeatedly.
func SeedGroups(db *gorm.DB) error {
	perms := map[string]string{
		models.PermCanViewBook:   "Can view book",
		models.PermCanCreateBook: "Can create book",
		models.PermCanEditBook:   "Can edit book",
		models.PermCanDeleteBook: "Can delete book",
	}
	byCode := make(map[string]models.Permission, len(perms))
	for code, name := range perms {
		var p models.Permission
		if err := db.Where(models.Permission{Code: code}).
			Attrs(models.Permission{Name: name}).
			FirstOrCreate(&p).Error; err != nil {
			return err
		}
		byCode[code] = p
	}

	groups := map[string][]string{
		models.GroupViewers: {models.PermCanViewBook},
		models.GroupEditors: {models.PermCanViewBook, models.PermCanCreateBook, models.PermCanEditBook},
		models.GroupAdmins:  {models.PermCanViewBook, models.PermCanCreateBook, models.PermCanEditBook, models.PermCanDeleteBook},
	}
	for name, codes := range groups {
		var g models.Group
		if err := db.Where(models.Group{Name: name}).FirstOrCreate(&g).Error; err != nil {
			return err
		}
		assigned := make([]models.Permission, 0, len(codes))
		for _, code := range codes {
			assigned = append(assigned, byCode[code])
		}
		if err := db.Model(&g).Association("Permissions").Replace(assigned); err != nil {
			return err
		}
	}
	return nil
}
