package constants

import "time"

const (
	AppName           = "confi"
	DefaultConfigPath = "~/.config/confi/confi.db"
	Version           = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DisplayTimeFormat is used when showing timestamps to the user
	DisplayTimeFormat = "Jan 2, 2006 15:04"

	// Keyring
	KeyringAPIKeyUser = "gemini-api-key"

	// Storage keys
	KeyPrefix          = "confi_"
	UsersKey           = "confi_users"
	KindChallenges     = "challenges"
	KindAffirmations   = "affirmations"
	KindJournalEntries = "journal_entries"

	// ChallengeWindow is the fixed length of every new challenge
	ChallengeWindow = 14 * 24 * time.Hour

	// MaxAffirmations is how many affirmations are kept per user
	MaxAffirmations = 10

	// ProgressChartSlots pads the progress chart so an empty history still renders
	ProgressChartSlots = 5

	// PlanSubTaskCount is how many sub-tasks the coach is asked to produce
	PlanSubTaskCount = 5

	// DefaultJournalPrompt is stored when an entry is written without a prompt
	DefaultJournalPrompt = "Self Reflection"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "confi-"
	BackupFileSuffix = ".db"

	// Coach
	DefaultModel          = "gemini-3-flash-preview"
	DefaultRequestTimeout = 30 * time.Second
)
