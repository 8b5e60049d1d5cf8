// Package process isolates the per-OS handling of compiler subprocesses:
// starting them in their own process group and killing the whole group
// when a compile times out.
package process
