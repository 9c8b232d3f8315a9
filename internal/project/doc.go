// Package project reads the metadata document of a downstream project:
// its repository identifier and the list of paths it has locked against
// synchronization.
package project
