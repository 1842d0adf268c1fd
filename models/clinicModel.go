package models

import (
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User roles. Admin and coordinator may start or complete another
// professional's service.
const (
	RoleAdmin        = "admin"
	RoleCoordinator  = "coordinator"
	RoleProfessional = "professional"
	RoleReceptionist = "receptionist"
)

// IsOverrideRole reports whether the role may act on appointments assigned to
// another professional.
func IsOverrideRole(role string) bool {
	return role == RoleAdmin || role == RoleCoordinator
}

// Unit model
type Unit struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	Name      string    `gorm:"column:name;not null;unique" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Unit) TableName() string {
	return "unit"
}

// Specialty model
type Specialty struct {
	ID   string `gorm:"primaryKey;column:id" json:"id"`
	Name string `gorm:"column:name;not null;unique" json:"name"`
}

func (Specialty) TableName() string {
	return "specialty"
}

// Professional model. UnitID is nullable: a professional without a home unit
// cannot receive appointments.
type Professional struct {
	ID          string     `gorm:"primaryKey;column:id" json:"id"`
	Name        string     `gorm:"column:name;not null;index" json:"name"`
	Email       string     `gorm:"column:email" json:"email"`
	UnitID      *string    `gorm:"column:unit_id;index" json:"unit_id"`
	SpecialtyID *string    `gorm:"column:specialty_id;index" json:"specialty_id"`
	Active      bool       `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Unit        *Unit      `gorm:"foreignKey:UnitID;references:ID" json:"unit,omitempty"`
	Specialty   *Specialty `gorm:"foreignKey:SpecialtyID;references:ID" json:"specialty,omitempty"`
}

func (Professional) TableName() string {
	return "professional"
}

// Patient model
type Patient struct {
	ID          string    `gorm:"primaryKey;column:id" json:"id"`
	Name        string    `gorm:"column:name;not null;index" json:"name"`
	DateOfBirth string    `gorm:"column:date_of_birth" json:"date_of_birth"`
	Phone       string    `gorm:"column:phone" json:"phone"`
	Email       string    `gorm:"column:email" json:"email"`
	Address     string    `gorm:"column:address" json:"address"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Patient) TableName() string {
	return "patient"
}

// User represents a staff account. ProfessionalID is set for accounts owned
// by clinical staff and is the identity the lifecycle authorization compares
// against.
type User struct {
	ID             string    `gorm:"primaryKey;column:id" json:"id"`
	Username       string    `gorm:"column:username;size:100;not null;unique;index" json:"username"`
	Email          string    `gorm:"column:email;size:255;not null;unique;index" json:"email"`
	Password       string    `gorm:"column:password;size:255;not null" json:"-"`
	Role           string    `gorm:"column:role;not null;check:role IN ('admin', 'coordinator', 'professional', 'receptionist')" json:"role"`
	ProfessionalID *string   `gorm:"column:professional_id;index" json:"professional_id"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// SeedAdminUser inserts the bootstrap admin account if no user exists yet.
func SeedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("ADMIN_INITIAL_PASSWORD")
	if password == "" {
		password = "ChangeMe!123"
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := User{
		ID:       "admin",
		Username: "admin",
		Email:    "admin@clinic.local",
		Password: string(hashed),
		Role:     RoleAdmin,
	}
	return db.Create(&admin).Error
}
