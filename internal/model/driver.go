package model

// Driver status values as stored in drivers.status.
const (
	DriverAvailable = "available"
	DriverAssigned  = "assigned"
	DriverInactive  = "inactive"
)

// Driver links a user account to its operational profile in the
// `drivers` table. Drivers are assigned to shipments and record
// tracking events while on route.
//
// Fields:
//  ID                    – primary key identifier.
//  UserID                – reference to the backing users row.
//  LicenseNumber         – driving license number.
//  LicenseExpiry         – license expiry date (YYYY-MM-DD).
//  MedicalCheckDate      – last medical check date, nullable.
//  TrainingCertification – certification label, if any.
//  Status                – available, assigned or inactive.
type Driver struct {
	ID                    uint64  // drivers.driver_id
	UserID                uint64  // drivers.user_id
	LicenseNumber         string  // drivers.license_number
	LicenseExpiry         string  // drivers.license_expiry
	MedicalCheckDate      *string // drivers.medical_check_date (nullable)
	TrainingCertification string  // drivers.training_certification
	Status                string  // drivers.status
}
