// {{{ Copyright (c) Paul R. Tagliamonte <paul@k3xec.com>, 2020
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE. }}}

package matudp

import (
	"fmt"
)

var (
	// ErrDataTypeUnknown is returned when a data_type_id on the wire does
	// not match any of the closed set of primitive types.
	ErrDataTypeUnknown = fmt.Errorf("matudp: data type id is not understood")
)

// DataType is the closed enumeration of element types a SignalSample's
// data bytes may be interpreted as. The wire value is a single byte.
type DataType uint8

const (
	// DataTypeF64 is an IEEE754 double.
	DataTypeF64 DataType = 0

	// DataTypeF32 is an IEEE754 single.
	DataTypeF32 DataType = 1

	// DataTypeI8 is a signed byte.
	DataTypeI8 DataType = 2

	// DataTypeU8 is an unsigned byte.
	DataTypeU8 DataType = 3

	// DataTypeI16 is a signed 16-bit integer.
	DataTypeI16 DataType = 4

	// DataTypeU16 is an unsigned 16-bit integer.
	DataTypeU16 DataType = 5

	// DataTypeI32 is a signed 32-bit integer.
	DataTypeI32 DataType = 6

	// DataTypeU32 is an unsigned 32-bit integer.
	DataTypeU32 DataType = 7

	// DataTypeChar is a single byte interpreted as a character.
	DataTypeChar DataType = 8

	// DataTypeBool is a single byte, zero or non-zero.
	DataTypeBool DataType = 9
)

// Width returns the number of bytes a single element of this DataType
// occupies on the wire. It returns 0 for an unrecognized DataType; callers
// that need to reject unknown types should check Valid() instead.
func (dt DataType) Width() int {
	switch dt {
	case DataTypeF64:
		return 8
	case DataTypeF32:
		return 4
	case DataTypeI8, DataTypeU8, DataTypeChar, DataTypeBool:
		return 1
	case DataTypeI16, DataTypeU16:
		return 2
	case DataTypeI32, DataTypeU32:
		return 4
	default:
		return 0
	}
}

// Valid reports whether dt is one of the ten recognized primitive types.
func (dt DataType) Valid() bool {
	return dt <= DataTypeBool
}

// String returns a human readable name for the DataType.
func (dt DataType) String() string {
	switch dt {
	case DataTypeF64:
		return "f64"
	case DataTypeF32:
		return "f32"
	case DataTypeI8:
		return "i8"
	case DataTypeU8:
		return "u8"
	case DataTypeI16:
		return "i16"
	case DataTypeU16:
		return "u16"
	case DataTypeI32:
		return "i32"
	case DataTypeU32:
		return "u32"
	case DataTypeChar:
		return "char"
	case DataTypeBool:
		return "bool"
	default:
		return "unknown"
	}
}

// vim: foldmethod=marker
