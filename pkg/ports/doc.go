// Package ports declares the driven-side interfaces of the editor
// core. Adapters (memory, file, redis) implement them; the core and
// the CLI depend only on the contracts.
package ports
