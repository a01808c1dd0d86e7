// Package session persists user contexts between program runs.
//
// A user context restored from saved properties signs requests exactly
// like the context produced by the original interactive login, so a saved
// session spares users from logging in on every run. The learned server
// clock skew survives too, which keeps the first request after a restart
// inside the server's timestamp window.
//
// Only the portable properties are stored (host, user ID, user key, flags
// and skew). Application credentials stay outside the store and must be
// supplied again to restore a context:
//
//	store, err := session.NewSQLiteStore("valence.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	props, err := store.Load(ctx, "default")
//	if errors.Is(err, session.ErrNotFound) {
//	    // run the interactive login instead
//	}
//
//	userCtx, err := auth.RestoreUserContext(appID, appKey, props)
//
// After a run that corrected the skew estimate, save the context back so
// the correction sticks:
//
//	err = store.Save(ctx, "default", userCtx.Properties())
package session
