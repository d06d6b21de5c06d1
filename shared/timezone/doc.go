// Package timezone pins every timestamp the service produces to APP_TIMEZONE (UTC when unset).
// It is initialized on import from config.Get.
package timezone
