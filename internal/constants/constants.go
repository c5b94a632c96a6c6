package constants

// Execution modes
const (
	ModeReport     = "report"
	ModeQuarantine = "quarantine"
	ModeDelete     = "delete"
)

// Hash algorithms
const (
	HashAlgorithmSHA256 = "sha256"
	HashAlgorithmBLAKE3 = "blake3"
)

// Hashing sizes
const (
	// PartialSampleSize is the number of bytes read from the head, middle
	// and tail of a file when computing the partial digest.
	PartialSampleSize = 64 * 1024

	// FullHashChunkSize is the read size used when streaming a whole file
	// through the hash function.
	FullHashChunkSize = 1024 * 1024
)

// Defaults
const (
	DefaultWorkers      = 4
	DefaultMaxSize      = int64(1) << 40 // 1 TiB
	QuarantineDirName   = "_DUPLICATE_QUARANTINE"
	LogDirName          = "_DUPLICATE_LOGS"
	RestoreManifestName = "restore_manifest.json"
)

// File permissions
const (
	SecureDirPerms    = 0o700 // Owner read/write/execute only
	SecureFilePerms   = 0o600 // Owner read/write only
	StandardDirPerms  = 0o755 // Standard directory permissions
	StandardFilePerms = 0o644 // Standard file permissions
)

// Display constants
const (
	HashDisplayLength = 12 // Length of hash to display in logs
)
