// Package sync applies a skeleton's rule table to one project.
//
// A run loads the project's metadata and lock list, then walks the rules
// in table order. Each rule finishes (read, transform, write) before the
// next starts, because later rules and the regeneration hooks that follow
// them read what earlier rules wrote. Any error aborts the run; what was
// already written stays written, and rerunning is safe because every step
// is idempotent.
package sync
