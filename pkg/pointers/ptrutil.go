/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package pointers

// Returns a pointer to a copy of the given value.
func Pointer[T any](val T) *T {
	return &val
}

func GetValueOrDefault[T any, PT *T](p PT, defaultValue T) T {
	if p == nil {
		return defaultValue
	}
	return *p
}

// Returns true if the boolean pointer has value and the value is true.
func TrueValue[T ~bool, PT *T](p PT) bool {
	return bool(GetValueOrDefault(p, false))
}

// Creates a new pointer from the given pointer, pointing to the same value as the original pointer.
// Returns nil if the input pointer is nil.
func Duplicate[T any, PT *T](p PT) PT {
	if p == nil {
		return nil
	}

	newP := new(T)
	*newP = *p
	return newP
}

// Returns nil for the zero value of T, and a pointer to a copy of val otherwise.
func NonZero[T comparable](val T) *T {
	var zero T
	if val == zero {
		return nil
	}
	return &val
}
