package models

const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

const (
	RoleGuest = "guest"
	RoleHost  = "host"
)

// Sync queue task lifecycle.
const (
	SyncStatusPending   = "pending"
	SyncStatusRetry     = "retry"
	SyncStatusCompleted = "completed"
	SyncStatusFailed    = "failed"
)

const (
	TaskTypeLedgerAppend = "ledger_append"
	TaskTypeLedgerUpdate = "ledger_update"
)

// Perk tags a listing may advertise. Anything else is rejected on create
// and patch.
const (
	PerkWifi      = "wifi"
	PerkParking   = "parking"
	PerkTV        = "tv"
	PerkPets      = "pets"
	PerkBreakfast = "breakfast"
	PerkEntrance  = "entrance"
)

var KnownPerks = map[string]bool{
	PerkWifi:      true,
	PerkParking:   true,
	PerkTV:        true,
	PerkPets:      true,
	PerkBreakfast: true,
	PerkEntrance:  true,
}

const (
	// DefaultCheckInHour / DefaultCheckOutHour когда часы не заданы при создании.
	DefaultCheckInHour  = 14
	DefaultCheckOutHour = 11

	// DefaultMaxBookingAdvanceDays ограничивает, насколько далеко вперёд
	// можно бронировать.
	DefaultMaxBookingAdvanceDays = 365

	// DefaultBookingRateLimit заявок на пользователя в окне.
	DefaultBookingRateLimit = 10

	// DefaultBookingRateWindow окно ограничения в секундах.
	DefaultBookingRateWindow = 60

	// DefaultStateTTL время жизни состояния пользователя в Redis (секунды).
	DefaultStateTTL = 24 * 60 * 60

	// WorkerQueueSize размер очереди воркера.
	WorkerQueueSize = 1000

	// DefaultExportRangeMonthsBefore/After период экспорта по умолчанию.
	DefaultExportRangeMonthsBefore = 1
	DefaultExportRangeMonthsAfter  = 2
)
