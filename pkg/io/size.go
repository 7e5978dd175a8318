package io

import (
	"fmt"
	"reflect"
)

// countingWriter is an io.Writer that only counts bytes written into it.
type countingWriter struct {
	n int
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	cw.n += len(p)
	return len(p), nil
}

// GetVarIntSize returns the size in number of bytes of a variable integer.
// Reference: GetVarSize(int value), https://github.com/neo-project/neo/blob/master/neo/IO/Helper.cs
func GetVarIntSize(value int) int {
	var size uintptr

	if value < 0xFD {
		size = 1 // unit8
	} else if value <= 0xFFFF {
		size = 3 // byte + uint16
	} else if value <= 0xFFFFFFFF {
		size = 5 // byte + uint32
	} else {
		size = 9 // byte + uint64
	}
	return int(size)
}

// GetVarSize returns the number of bytes in a serialized variable. It supports ints/uints (estimating
// them with variable-length encoding that is used in Neo), strings, byte slices and
// Serializable values (and slices of them).
func GetVarSize(value any) int {
	if e, ok := value.(encodable); ok {
		return serializedSize(e)
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.String:
		valueSize := len(v.String())
		return GetVarIntSize(valueSize) + valueSize
	case reflect.Int,
		reflect.Int8,
		reflect.Int16,
		reflect.Int32,
		reflect.Int64:
		return GetVarIntSize(int(v.Int()))
	case reflect.Uint,
		reflect.Uint8,
		reflect.Uint16,
		reflect.Uint32,
		reflect.Uint64:
		return GetVarIntSize(int(v.Uint()))
	case reflect.Slice, reflect.Array:
		valueLength := v.Len()
		valueSize := 0

		if valueLength != 0 {
			switch v.Index(0).Interface().(type) {
			case encodable:
				for i := 0; i < valueLength; i++ {
					valueSize += serializedSize(v.Index(i).Interface().(encodable))
				}
			case uint8, int8:
				valueSize = valueLength
			case uint16, int16:
				valueSize = valueLength * 2
			case uint32, int32:
				valueSize = valueLength * 4
			case uint64, int64:
				valueSize = valueLength * 8
			default:
				if v.Index(0).CanAddr() {
					if _, ok := v.Index(0).Addr().Interface().(encodable); ok {
						for i := 0; i < valueLength; i++ {
							valueSize += serializedSize(v.Index(i).Addr().Interface().(encodable))
						}
						break
					}
				}
				panic(fmt.Sprintf("unable to calculate GetVarSize for a slice of %s", v.Type().Elem()))
			}
		}

		return GetVarIntSize(valueLength) + valueSize
	default:
		panic(fmt.Sprintf("unable to calculate GetVarSize, %s", reflect.TypeOf(value)))
	}
}

func serializedSize(e encodable) int {
	cw := countingWriter{}
	w := NewBinWriterFromIO(&cw)
	e.EncodeBinary(w)
	if w.Err != nil {
		panic(fmt.Sprintf("error serializing %T: %s", e, w.Err.Error()))
	}
	return cw.n
}
