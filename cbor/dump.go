/*
   Copyright 2024 The Erigon contributors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package cbor

import (
	"fmt"
	"io"
)

// Dump writes a human-readable rendering of cursor to w, recursing into
// arrays and maps. It is a debugging aid, not a wire format.
func Dump(w io.Writer, cursor Cursor) {
	dump(w, cursor)
	fmt.Fprintln(w)
}

func dump(w io.Writer, cursor Cursor) {
	switch cursor.Type() {
	case TypeNumber:
		v, err := cursor.GetValue()
		if err != nil {
			return
		}
		fmt.Fprintf(w, "%d", v)

	case TypeString:
		data, err := cursor.GetData()
		if err != nil {
			return
		}
		fmt.Fprintf(w, "%q", string(data))

	case TypeData:
		data, err := cursor.GetData()
		if err != nil {
			return
		}
		fmt.Fprintf(w, "0x%x", data)

	case TypeArray:
		fmt.Fprint(w, "[ ")
		first := true
		it := cursor.Iterate()
		for it.NextChild() {
			if !first {
				fmt.Fprint(w, ", ")
			}
			first = false
			dump(w, it.Child)
		}
		if it.Err != nil {
			fmt.Fprintf(w, "<ERROR %v>", it.Err)
			return
		}
		if !first {
			fmt.Fprint(w, " ")
		}
		fmt.Fprint(w, "]")

	case TypeMap:
		fmt.Fprint(w, "{ ")
		first := true
		it := cursor.Iterate()
		for it.NextChild() {
			if !first {
				fmt.Fprint(w, ", ")
			}
			first = false
			dump(w, it.Key)
			fmt.Fprint(w, ": ")
			dump(w, it.Child)
		}
		if it.Err != nil {
			fmt.Fprintf(w, "<ERROR %v>", it.Err)
			return
		}
		if !first {
			fmt.Fprint(w, " ")
		}
		fmt.Fprint(w, "}")

	case TypeBoolean:
		v, err := cursor.GetValue()
		if err != nil {
			return
		}
		fmt.Fprintf(w, "%t", v != 0)

	case TypeNull:
		fmt.Fprint(w, "null")

	default:
		fmt.Fprintf(w, "<ERROR type=%d>", cursor.Type())
	}
}
