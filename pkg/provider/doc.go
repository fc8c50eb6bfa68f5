// Package provider defines the capability contract every vendor adapter
// implements and the registry that routes "vendor:model" strings to an
// adapter. Adapters for the concrete vendors live in the subpackages.
package provider
