// Package hooks regenerates derived project artifacts after a sync run.
//
// Each manifest hook entry becomes a Hook. Hooks run strictly after every
// path rule has been applied, in declared order, and read the project tree
// as it stands at that point. A hook that fails aborts the hooks after it.
//
// Three kinds are built in:
//
//   - ignorefile compiles an ignore file from a YAML exclusions catalog and
//     keeps the target's custom marker region.
//   - toml renders a YAML or JSON settings document as TOML.
//   - exec runs an external command in the project root.
package hooks
