// Package defaults provides centralized constants shared across the
// product-config packages, so behaviors like the accepted schema format
// version and the expansion safety bound are defined once.
package defaults
