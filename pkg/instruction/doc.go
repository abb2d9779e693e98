/*
Package instruction parses the one-line cell instruction language.

An instruction describes a single cell:

	'Total'@B3#B↔$FF0000%00FF00

	'…'   optional content (an unterminated quote drops the content)
	@     mandatory A1 address
	#     optional style tokens
	$     optional foreground (font) colour, six hex digits
	%     optional background (fill) colour, six hex digits

Style tokens are single characters and may appear in any order:

	➡  align right      B / b  bold on / off
	⬅  align left       I / i  italic on / off
	↔  align center     U / u  underline on / off

Unknown tokens are ignored. When contradictory tokens appear in one
instruction the outcome is fixed by check order, not by position: right,
then left, then center for alignment, and the upper-case (enable) token
before its lower-case (disable) counterpart, so the later check wins.

Only a missing or undecodable address rejects an instruction. A malformed
colour decodes to black.
*/
package instruction
