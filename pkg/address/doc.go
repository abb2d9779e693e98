/*
Package address converts between A1-style cell references and 1-based
(row, column) coordinates.

Columns use bijective base-26 numbering: every "digit" ranges from A (1) to
Z (26) and there is no zero, so Z is 26, AA is 27 and ZZ is 702.

	ref, _ := address.Encode(3, 28) // "AB3"
	a, _ := address.Decode("ab3")   // {Row: 3, Col: 28}

The zero Address is the "unset" value. Encode and Decode never return a
partially valid result: any invalid input yields ErrInvalid together with
the zero Address (or an empty string).
*/
package address
