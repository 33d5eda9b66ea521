// Package domain defines the validated value types of the newsletter service.
//
// Types in this package are constructed through Parse* functions that either
// return a fully valid value or a *ValidationError. They carry no database,
// HTTP, or logging dependencies.
package domain
