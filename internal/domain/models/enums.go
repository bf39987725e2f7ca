package models

// Gender of an animal.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// Valid reports whether g is a known gender.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// CattleStatus is the lifecycle state of an animal.
type CattleStatus string

const (
	CattleActive      CattleStatus = "ACTIVE"
	CattleSold        CattleStatus = "SOLD"
	CattleDeceased    CattleStatus = "DECEASED"
	CattleQuarantined CattleStatus = "QUARANTINED"
)

func (s CattleStatus) Valid() bool {
	switch s {
	case CattleActive, CattleSold, CattleDeceased, CattleQuarantined:
		return true
	}
	return false
}

// CattleCategory classifies an animal by age and sex.
type CattleCategory string

const (
	CategoryBull   CattleCategory = "BULL"
	CategoryCow    CattleCategory = "COW"
	CategoryHeifer CattleCategory = "HEIFER"
	CategoryCalf   CattleCategory = "CALF"
	CategorySteer  CattleCategory = "STEER"
)

func (c CattleCategory) Valid() bool {
	switch c {
	case CategoryBull, CategoryCow, CategoryHeifer, CategoryCalf, CategorySteer:
		return true
	}
	return false
}

// MilkSession is the collection window of a milking.
type MilkSession string

const (
	SessionMorning   MilkSession = "MORNING"
	SessionAfternoon MilkSession = "AFTERNOON"
	SessionEvening   MilkSession = "EVENING"
)

func (s MilkSession) Valid() bool {
	return s == SessionMorning || s == SessionAfternoon || s == SessionEvening
}

// MilkQuality grades a milking.
type MilkQuality string

const (
	QualityExcellent MilkQuality = "EXCELLENT"
	QualityGood      MilkQuality = "GOOD"
	QualityFair      MilkQuality = "FAIR"
	QualityPoor      MilkQuality = "POOR"
)

func (q MilkQuality) Valid() bool {
	switch q {
	case QualityExcellent, QualityGood, QualityFair, QualityPoor:
		return true
	}
	return false
}

// HealthRecordType is the kind of veterinary event.
type HealthRecordType string

const (
	RecordVaccination HealthRecordType = "VACCINATION"
	RecordDeworming   HealthRecordType = "DEWORMING"
	RecordCheckup     HealthRecordType = "CHECKUP"
	RecordTreatment   HealthRecordType = "TREATMENT"
	RecordSurgery     HealthRecordType = "SURGERY"
)

func (t HealthRecordType) Valid() bool {
	switch t {
	case RecordVaccination, RecordDeworming, RecordCheckup, RecordTreatment, RecordSurgery:
		return true
	}
	return false
}

// VaccinationType narrows a VACCINATION record.
type VaccinationType string

const (
	VaccineFMD         VaccinationType = "FMD"
	VaccineBrucellosis VaccinationType = "BRUCELLOSIS"
	VaccineAnthrax     VaccinationType = "ANTHRAX"
	VaccineBlackleg    VaccinationType = "BLACKLEG"
	VaccineRabies      VaccinationType = "RABIES"
	VaccineOther       VaccinationType = "OTHER"
)

func (v VaccinationType) Valid() bool {
	switch v {
	case VaccineFMD, VaccineBrucellosis, VaccineAnthrax, VaccineBlackleg, VaccineRabies, VaccineOther:
		return true
	}
	return false
}

// HealthStatus tracks the progress of a scheduled health record.
type HealthStatus string

const (
	HealthPending   HealthStatus = "PENDING"
	HealthCompleted HealthStatus = "COMPLETED"
	HealthOverdue   HealthStatus = "OVERDUE"
	HealthCancelled HealthStatus = "CANCELLED"
)

func (s HealthStatus) Valid() bool {
	switch s {
	case HealthPending, HealthCompleted, HealthOverdue, HealthCancelled:
		return true
	}
	return false
}

// FeedType enumerates stocked feeds.
type FeedType string

const (
	FeedHay               FeedType = "HAY"
	FeedConcentrate       FeedType = "CONCENTRATE"
	FeedSilage            FeedType = "SILAGE"
	FeedMineralSupplement FeedType = "MINERAL_SUPPLEMENT"
	FeedGrain             FeedType = "GRAIN"
	FeedOther             FeedType = "OTHER"
)

func (f FeedType) Valid() bool {
	switch f {
	case FeedHay, FeedConcentrate, FeedSilage, FeedMineralSupplement, FeedGrain, FeedOther:
		return true
	}
	return false
}

// Role gates employee management.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleManager      Role = "MANAGER"
	RoleWorker       Role = "WORKER"
	RoleVeterinarian Role = "VETERINARIAN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleWorker, RoleVeterinarian:
		return true
	}
	return false
}

// StockStatus is the derived state of a feed inventory item.
type StockStatus string

const (
	StockGood    StockStatus = "GOOD"
	StockLow     StockStatus = "LOW"
	StockExpired StockStatus = "EXPIRED"
)
