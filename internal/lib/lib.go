// Package lib acts as a library for modules that do not fit
// strictly into other layers.
//
// It contains the concurrent aggregation helper (parallel), upload
// storage (local disk and MinIO), background job processing (using
// Redis/Asynq), and email client integrations (like Resend).
package lib
