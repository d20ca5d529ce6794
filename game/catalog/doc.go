// Package catalog is the registry of playable games. It is the only package
// that knows every engine: hosts build games through NewGame and describe
// them with Entries.
package catalog
