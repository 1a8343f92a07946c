package models

// Role is the part a user plays in the donation workflow.
type Role string

const (
	RoleDonator   Role = "DONATOR"
	RolePantry    Role = "PANTRY"
	RoleAdmin     Role = "ADMIN"
	RoleWarehouse Role = "WAREHOUSE"
)

// Roles lists every role in display order.
var Roles = []Role{RoleDonator, RolePantry, RoleAdmin, RoleWarehouse}

type MeasurementType string

const (
	MeasurementUnit MeasurementType = "UNIT"
	MeasurementKG   MeasurementType = "KG"
)

var MeasurementTypes = []MeasurementType{MeasurementUnit, MeasurementKG}

type Category string

const (
	CategoryFruit     Category = "FRUIT"
	CategoryVegetable Category = "VEGETABLE"
	CategoryMeat      Category = "MEAT"
	CategoryDairy     Category = "DAIRY"
	CategoryGrain     Category = "GRAIN"
	CategorySeafood   Category = "SEAFOOD"
	CategoryBeverage  Category = "BEVERAGE"
	CategorySnack     Category = "SNACK"
	CategoryBakery    Category = "BAKERY"
	CategoryOther     Category = "OTHER"
)

var Categories = []Category{
	CategoryFruit, CategoryVegetable, CategoryMeat, CategoryDairy, CategoryGrain,
	CategorySeafood, CategoryBeverage, CategorySnack, CategoryBakery, CategoryOther,
}

type StorageRequirement string

const (
	StorageAmbient StorageRequirement = "AMBIENT"
	StorageCold    StorageRequirement = "COLD"
	StorageFrozen  StorageRequirement = "FROZEN"
)

var StorageRequirements = []StorageRequirement{StorageAmbient, StorageCold, StorageFrozen}

// DateType says how the date on a donation item should be read.
type DateType string

const (
	DateUseBy          DateType = "USE_BY"
	DateBestBefore     DateType = "BEST_BEFORE"
	DateProductionDate DateType = "PRODUCTION_DATE"
)

var DateTypes = []DateType{DateUseBy, DateBestBefore, DateProductionDate}

type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestAccepted  RequestStatus = "ACCEPTED"
	RequestRejected  RequestStatus = "REJECTED"
	RequestCompleted RequestStatus = "COMPLETED"
)

type DonationStatus string

const (
	DonationAvailable DonationStatus = "AVAILABLE"
	DonationClaimed   DonationStatus = "CLAIMED"
	DonationCompleted DonationStatus = "COMPLETED"
)

type DeliveryMethod string

const (
	DeliveryCollect DeliveryMethod = "COLLECT"
	DeliveryReceive DeliveryMethod = "RECEIVE"
)

var DeliveryMethods = []DeliveryMethod{DeliveryCollect, DeliveryReceive}
