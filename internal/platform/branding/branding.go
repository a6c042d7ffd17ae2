// Package branding centralizes product naming so user-facing surfaces stay
// consistent when the project is renamed.
package branding

// AppName is the user-facing product name.
const AppName = "AI-DnD"
