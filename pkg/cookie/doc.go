// Package cookie provides HTTP cookie management with optional signing and encryption.
//
// The Manager handles plain, signed, encrypted and JSON cookies, plus flash
// messages. Secrets are optional; signed and encrypted operations return
// [ErrNoSecret] without one.
//
// # Keys
//
// Each secret is expanded with HKDF-SHA256 into a signing key and an AES-256
// key. Signatures and ciphertexts are bound to the cookie name. Retired
// secrets passed to [WithPreviousSecrets] keep old cookies readable while
// new cookies are written with the current secret.
//
// # Usage
//
//	m, err := cookie.NewFromConfig(cfg.Cookie)
//	if err != nil {
//		return err
//	}
//
//	m.Set(w, "theme", "dark", 30*24*time.Hour)
//	_ = m.SetSigned(w, "uid", userID, time.Hour)
//	_ = m.SetJSON(w, "prefs", prefs, 0)
//
//	var prefs Preferences
//	if err := m.GetJSON(r, "prefs", &prefs); errors.Is(err, cookie.ErrNotFound) {
//		// first visit
//	}
//
// Flash messages survive one redirect:
//
//	_ = m.SetFlash(w, "notice", "Saved")
//	var msg string
//	_ = m.Flash(w, r, "notice", &msg)
package cookie
