// Package health provides the liveness, readiness and health endpoints of
// the service.
//
// Checks are registered on a Handler and run concurrently for every
// readiness or health request. A failing critical check makes the service
// unavailable; a failing non-critical check only degrades it.
//
//	h := health.NewHandler(health.WithVersion(version))
//	h.AddCheck(health.PingCheck("settings-store", health.DependencyTypeCache, store))
//	h.AddCheck(health.SettingsCheck(svc))
//	h.RegisterRoutes(engine)
package health
