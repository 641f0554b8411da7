package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Doctor model
type Doctor struct {
	ID           string        `gorm:"primaryKey;column:id" json:"id"`
	FirstName    string        `gorm:"column:first_name;not null" json:"first_name"`
	LastName     string        `gorm:"column:last_name;not null;index" json:"last_name"`
	Specialty    string        `gorm:"column:specialty" json:"specialty"`
	Phone        string        `gorm:"column:phone" json:"phone"`
	Email        string        `gorm:"column:email" json:"email"`
	CreatedAt    time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Appointments []Appointment `gorm:"foreignKey:DoctorID;references:ID" json:"-"`
}

func (Doctor) TableName() string {
	return "doctor"
}

// Patient model
type Patient struct {
	ID             string          `gorm:"primaryKey;column:id" json:"id"`
	FirstName      string          `gorm:"column:first_name;not null" json:"first_name"`
	MiddleName     string          `gorm:"column:middle_name" json:"middle_name"`
	LastName       string          `gorm:"column:last_name;not null;index" json:"last_name"`
	Sex            string          `gorm:"column:sex;check:sex IN ('Male', 'Female', 'Other');not null" json:"sex"`
	DateOfBirth    string          `gorm:"column:date_of_birth;not null;index" json:"date_of_birth"`
	Phone          string          `gorm:"column:phone" json:"phone"`
	Email          string          `gorm:"column:email" json:"email"`
	Address        string          `gorm:"column:address" json:"address"`
	Allergies      string          `gorm:"column:allergies" json:"allergies"`
	MedicalHistory string          `gorm:"column:medical_history" json:"medical_history"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	TreatmentPlans []TreatmentPlan `gorm:"foreignKey:PatientID;references:ID" json:"-"`
	Appointments   []Appointment   `gorm:"foreignKey:PatientID;references:ID" json:"-"`
	Invoices       []Invoice       `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (Patient) TableName() string {
	return "patient"
}

// Appointment model
type Appointment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;column:id;index" json:"id"`
	PatientID string    `gorm:"column:patient_id;not null;index" json:"patient_id"`
	DoctorID  string    `gorm:"column:doctor_id;not null;index" json:"doctor_id"`
	DateTime  string    `gorm:"column:date_time;not null;index" json:"date_time"`
	Reason    string    `gorm:"column:reason" json:"reason"`
	Status    string    `gorm:"column:status;check:status IN ('scheduled', 'fulfilled', 'cancelled');not null" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Patient   Patient   `gorm:"foreignKey:PatientID;references:ID" json:"patient"`
	Doctor    Doctor    `gorm:"foreignKey:DoctorID;references:ID" json:"doctor"`
}

func (Appointment) TableName() string {
	return "appointment"
}

// TreatmentPlan model
type TreatmentPlan struct {
	ID            uint            `gorm:"primaryKey;autoIncrement;column:id;index" json:"id"`
	PatientID     string          `gorm:"column:patient_id;not null;index" json:"patient_id"`
	Title         string          `gorm:"column:title;not null" json:"title"`
	Plan          string          `gorm:"column:plan;not null" json:"plan"`
	EstimatedCost decimal.Decimal `gorm:"column:estimated_cost;type:numeric(12,2)" json:"estimated_cost"`
	Status        string          `gorm:"column:status;check:status IN ('proposed', 'in_progress', 'completed');not null" json:"status"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Patient       Patient         `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (TreatmentPlan) TableName() string {
	return "treatment_plan"
}
