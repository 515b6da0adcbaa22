package prefs

import "codeberg.org/mutker/vitalmon/internal/errors"

const (
	ErrInvalidMode  = errors.ErrorCode("prefs_invalid_mode")
	ErrUnknownEvent = errors.ErrUnknownEvt
	ErrInvalidPath  = errors.ErrorCode("prefs_invalid_path")

	// Storage Errors
	ErrStorageInit   = errors.ErrorCode("prefs_storage_init_failed")
	ErrStorageAccess = errors.ErrorCode("prefs_storage_access_failed")
	ErrStorageClose  = errors.ErrorCode("prefs_storage_close_failed")

	// Schema Errors
	ErrSchemaInitFailed       = errors.ErrorCode("prefs_schema_init_failed")
	ErrSchemaValidationFailed = errors.ErrorCode("prefs_schema_validation_failed")
	ErrSchemaMigrationFailed  = errors.ErrorCode("prefs_schema_migration_failed")
)
