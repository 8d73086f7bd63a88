package domain

// Business validation constants
const (
	MinNameLength     = 2
	MinPhoneDigits    = 10
	MinLocationLength = 3
	MinStreetLength   = 3
	MinBuildingLength = 1
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// TerminalStatuses список статусов, из которых сессия уже не меняется
// Используется при фильтрации сессий в хранилище
var TerminalStatuses = []WizardStatus{
	StatusConfirmed,
	StatusCancelled,
}

// ActiveStatuses список статусов живых сессий
var ActiveStatuses = []WizardStatus{
	StatusInProgress,
	StatusSubmitting,
}
