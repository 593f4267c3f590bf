// Package visibility decides which lessons a user can see and how an access
// toggle moves a module or lesson between states. It performs no I/O.
package visibility
